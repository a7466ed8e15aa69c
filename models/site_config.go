package models

import (
	"tmail/db"

	cmap "github.com/orcaman/concurrent-map/v2"
	"gorm.io/gorm/clause"
)

// SiteConfig holds runtime-mutable settings, e.g. EMAIL_DOMAINS
type SiteConfig struct {
	Key       string `gorm:"primaryKey;type:varchar(100)"`
	Value     string `gorm:"type:varchar(500)"`
	UpdatedAt int64
}

var siteConfigCache = cmap.New[string]()

func SiteConfigGet(key string) (string, bool) {
	if value, ok := siteConfigCache.Get(key); ok {
		return value, true
	}
	entry := SiteConfig{}
	if err := db.Instance.First(&entry, "`key` = ?", key).Error; err != nil {
		return "", false
	}
	siteConfigCache.Set(key, entry.Value)
	return entry.Value, true
}

func SiteConfigSet(key, value string) error {
	entry := SiteConfig{Key: key, Value: value}
	err := db.Instance.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return err
	}
	siteConfigCache.Set(key, value)
	return nil
}
