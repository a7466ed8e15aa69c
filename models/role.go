package models

import (
	"errors"
	"tmail/db"

	"gorm.io/gorm"
)

type Role struct {
	ID          uint64   `gorm:"primaryKey"`
	CreatedAt   int64
	Name        RoleName `gorm:"type:varchar(32);index:uniq_role_name,unique"`
	Description string   `gorm:"type:varchar(190)"`
}

type UserRole struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"index:uniq_user_role,unique"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RoleID uint64 `gorm:"index:uniq_user_role,unique"`
	Role   Role   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// RoleFindOrCreate resolves a role record by name, inserting it on first
// use. A duplicate-name insert lost to a concurrent bootstrap is resolved
// by re-reading, so two racing callers both end up with the same record.
func RoleFindOrCreate(tx *gorm.DB, name RoleName) (role Role, err error) {
	err = tx.First(&role, "name = ?", name).Error
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Role{}, err
	}
	role = Role{
		Name:        name,
		Description: roleDescriptions[name],
	}
	if err = tx.Create(&role).Error; err == nil {
		return role, nil
	}
	// Unique constraint hit - somebody else just created it
	err = tx.First(&role, "name = ?", name).Error
	return role, err
}

// UserRoleNames returns the names of all roles held by the given user
func UserRoleNames(userID uint64) (names []RoleName, err error) {
	err = db.Instance.Table("roles").
		Select("roles.name").
		Joins("join user_roles on user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Scan(&names).Error
	return names, err
}

// UserHasRole reports whether the user holds any role at all
func UserHasRole(tx *gorm.DB, userID uint64) (bool, error) {
	var count int64
	err := tx.Model(&UserRole{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}
