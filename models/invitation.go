package models

import (
	"errors"
	"log"
	"strings"
	"time"
	"tmail/db"
	"tmail/utils"

	"gorm.io/gorm"
)

type InvitationCode struct {
	ID              uint64 `gorm:"primaryKey"`
	CreatedAt       time.Time
	Code            string   `gorm:"type:varchar(32);index:uniq_code,unique"`
	Role            RoleName `gorm:"type:varchar(32)"`
	MailboxExpiryMs *int64
	ExpiresAt       time.Time
	CreatedByID     uint64
	CreatedBy       User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UsedByID        *uint64
	UsedBy          *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	UsedAt          *time.Time
}

const (
	codeLength         = 12
	maxExpiresInDays   = 365
	maxMailboxExpiryMs = 365 * 24 * 60 * 60 * 1000
)

var (
	ErrInvitationNotFound = errors.New("invitation code does not exist")
	ErrInvitationUsed     = errors.New("invitation code already used")
	ErrInvitationExpired  = errors.New("invitation code expired")
	ErrUserHasRole        = errors.New("user already has a role")
	ErrInvalidRole        = errors.New("invalid role")
	ErrExpiresOutOfRange  = errors.New("invitation code validity must be between 1 and 365 days")
	ErrMailboxExpiryRange = errors.New("mailbox expiry must be between 0 (permanent) and 1 year")
	ErrMailboxProvision   = errors.New("failed to create mailbox")
)

// InvitationIssue creates a new single-use code granting the given role.
// Only non-emperor roles can be issued. mailboxExpiryMs is only meaningful
// for squire codes. An omitted expiresInDays is defaulted by the caller;
// here the bounds are strict.
func InvitationIssue(creator *User, role RoleName, mailboxExpiryMs *int64, expiresInDays int) (InvitationCode, error) {
	if role == RoleEmperor || !ValidRoleName(role) {
		return InvitationCode{}, ErrInvalidRole
	}
	if role == RoleSquire && mailboxExpiryMs != nil && *mailboxExpiryMs != 0 {
		if *mailboxExpiryMs < 0 || *mailboxExpiryMs > maxMailboxExpiryMs {
			return InvitationCode{}, ErrMailboxExpiryRange
		}
	}
	if expiresInDays < 1 || expiresInDays > maxExpiresInDays {
		return InvitationCode{}, ErrExpiresOutOfRange
	}
	now := time.Now()
	invitation := InvitationCode{
		CreatedAt:   now,
		Code:        utils.RandCode(codeLength),
		Role:        role,
		ExpiresAt:   now.Add(time.Duration(expiresInDays) * 24 * time.Hour),
		CreatedByID: creator.ID,
	}
	if role == RoleSquire {
		// Normalize absent to the permanent sentinel so validate can echo it
		stored := int64(0)
		if mailboxExpiryMs != nil {
			stored = *mailboxExpiryMs
		}
		invitation.MailboxExpiryMs = &stored
	}
	return invitation, db.Instance.Create(&invitation).Error
}

// InvitationValidate looks up a code and reports why it cannot be redeemed,
// without consuming it. Codes are matched case-insensitively.
func InvitationValidate(code string) (InvitationCode, error) {
	invitation := InvitationCode{}
	code = strings.ToUpper(strings.TrimSpace(code))
	err := db.Instance.First(&invitation, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvitationCode{}, ErrInvitationNotFound
		}
		return InvitationCode{}, err
	}
	if invitation.UsedByID != nil {
		return InvitationCode{}, ErrInvitationUsed
	}
	if invitation.ExpiresAt.Before(time.Now()) {
		return InvitationCode{}, ErrInvitationExpired
	}
	return invitation, nil
}

// InvitationRedeem grants the user the role encoded by the code, consuming
// the code. Consumption is a conditional update on used_by_id still being
// unset, so of two concurrent redemptions of one code exactly one wins; the
// role grant happens in the same transaction and is only committed for the
// winner. For squire codes a mailbox is provisioned after the grant has
// committed; a provisioning failure does not undo the grant (the caller
// gets ErrMailboxProvision and the mailbox has to be created separately).
func InvitationRedeem(user *User, code string) (RoleName, error) {
	hasRole, err := UserHasRole(db.Instance, user.ID)
	if err != nil {
		return "", err
	}
	if hasRole {
		return "", ErrUserHasRole
	}
	invitation, err := InvitationValidate(code)
	if err != nil {
		return "", err
	}
	now := time.Now()
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&InvitationCode{}).
			Where("id = ? AND used_by_id IS NULL", invitation.ID).
			Updates(map[string]interface{}{
				"used_by_id": user.ID,
				"used_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent redemption
			return ErrInvitationUsed
		}
		role, err := RoleFindOrCreate(tx, invitation.Role)
		if err != nil {
			return err
		}
		return tx.Create(&UserRole{UserID: user.ID, RoleID: role.ID}).Error
	})
	if err != nil {
		return "", err
	}
	if invitation.Role == RoleSquire {
		expiry := MailboxExpiryFromMs(invitation.MailboxExpiryMs)
		if _, err := MailboxProvision(user, expiry, now); err != nil {
			log.Printf("Failed to create mailbox for user %d: %v", user.ID, err)
			return invitation.Role, ErrMailboxProvision
		}
	}
	return invitation.Role, nil
}
