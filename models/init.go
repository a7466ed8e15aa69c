package models

import (
	"tmail/db"
)

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Role{})
	db.Instance.AutoMigrate(&UserRole{})
	db.Instance.AutoMigrate(&InvitationCode{})
	db.Instance.AutoMigrate(&Mailbox{})
	db.Instance.AutoMigrate(&SiteConfig{})
}
