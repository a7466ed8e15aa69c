package models

import (
	"errors"
	"time"
	"tmail/db"
	"tmail/utils"

	"gorm.io/gorm"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Name      string `gorm:"type:varchar(100)"`
	Username  string `gorm:"type:varchar(100);index:uniq_username,unique"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
}

const saltSize = 60

var (
	ErrUserNotFound  = errors.New("user does not exist")
	ErrSelfDelete    = errors.New("cannot delete your own account")
	ErrDeleteEmperor = errors.New("cannot delete an emperor user")
)

func UserCreate(name, username, email, plainTextPassword string) (u User, err error) {
	u.Name = name
	u.Username = username
	u.Email = email
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
	return u, db.Instance.Create(&u).Error
}

func UserLogin(username, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "username = ? OR email = ?", username, username)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func (u *User) Roles() []RoleName {
	names, err := UserRoleNames(u.ID)
	if err != nil {
		return nil
	}
	return names
}

func (u *User) HasCapability(required Capability) bool {
	return HasCapability(u.Roles(), required)
}

func (u *User) HasCapabilities(required []Capability) bool {
	for _, capability := range required {
		if !u.HasCapability(capability) {
			return false
		}
	}
	return true
}

type MailboxStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

type UserListEntry struct {
	ID        uint64       `json:"id"`
	Name      string       `json:"name"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	Mailboxes MailboxStats `json:"mailboxes"`
}

// UserList returns one page of users, newest first, with their role and
// mailbox counts. roleFilter and hasExpiredMailbox filter within the page.
func UserList(roleFilter string, page, limit int, hasExpiredMailbox bool, now time.Time) (entries []UserListEntry, total int64, err error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if err = db.Instance.Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := []User{}
	err = db.Instance.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	entries = []UserListEntry{}
	for i := range users {
		roles := users[i].Roles()
		roleName := ""
		if len(roles) > 0 {
			roleName = string(roles[0])
		}
		if roleFilter != "" && roleName != roleFilter {
			continue
		}
		mailboxTotal, active, expired, err := MailboxCountsForUser(db.Instance, users[i].ID, now)
		if err != nil {
			return nil, 0, err
		}
		if hasExpiredMailbox && expired == 0 {
			continue
		}
		entries = append(entries, UserListEntry{
			ID:       users[i].ID,
			Name:     users[i].Name,
			Username: users[i].Username,
			Email:    users[i].Email,
			Role:     roleName,
			Mailboxes: MailboxStats{
				Total:   mailboxTotal,
				Active:  active,
				Expired: expired,
			},
		})
	}
	return entries, total, nil
}

// UserDelete removes a user and their roles and mailboxes. The caller
// cannot delete themselves and emperor users cannot be deleted at all.
func UserDelete(actor *User, targetID uint64) error {
	if targetID == actor.ID {
		return ErrSelfDelete
	}
	target := User{}
	if db.Instance.First(&target, targetID).Error != nil {
		return ErrUserNotFound
	}
	for _, role := range target.Roles() {
		if role == RoleEmperor {
			return ErrDeleteEmperor
		}
	}
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", target.ID).Delete(&UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&Mailbox{}).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
}
