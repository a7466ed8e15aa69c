package db

import (
	"tmail/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

func Init() {
	var err error
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}
	if config.MYSQL_DSN != "" {
		Instance, err = gorm.Open(mysql.Open(config.MYSQL_DSN), gormConfig)
	} else if config.SQLITE_FILE != "" {
		Instance, err = gorm.Open(sqlite.Open(config.SQLITE_FILE), gormConfig)
	} else {
		panic("neither MYSQL_DSN nor SQLITE_FILE is configured")
	}
	if err != nil || Instance == nil {
		panic(err)
	}
}

// InitTest points the global instance at an in-memory SQLite DB.
// Used by model and handler tests only.
func InitTest() {
	var err error
	Instance, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil || Instance == nil {
		panic(err)
	}
}
