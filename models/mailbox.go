package models

import (
	"strings"
	"time"
	"tmail/config"
	"tmail/db"
	"tmail/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MailboxNeverExpires is the expiry stored for permanent mailboxes
var MailboxNeverExpires = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// MailboxExpiry is either permanent or a duration counted from creation.
// On the wire this is an integer number of milliseconds where 0 or absent
// means permanent.
type MailboxExpiry struct {
	Permanent bool
	Duration  time.Duration
}

func MailboxExpiryFromMs(ms *int64) MailboxExpiry {
	if ms == nil || *ms == 0 {
		return MailboxExpiry{Permanent: true}
	}
	return MailboxExpiry{Duration: time.Duration(*ms) * time.Millisecond}
}

func (e MailboxExpiry) At(now time.Time) time.Time {
	if e.Permanent {
		return MailboxNeverExpires
	}
	return now.Add(e.Duration)
}

type Mailbox struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
	Address   string `gorm:"type:varchar(255);index:uniq_address,unique"`
	ExpiresAt time.Time
	UserID    uint64 `gorm:"index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (m *Mailbox) Expired(now time.Time) bool {
	return !m.ExpiresAt.After(now)
}

// MailboxProvision creates a mailbox for the user. The local part is the
// user's preferred identifier and the domain is the first configured email
// domain.
func MailboxProvision(user *User, expiry MailboxExpiry, now time.Time) (Mailbox, error) {
	local := user.Username
	if local == "" {
		local = utils.LocalPart(user.Email)
	}
	if local == "" {
		local = user.Name
	}
	mailbox := Mailbox{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Address:   local + "@" + EmailDomains()[0],
		ExpiresAt: expiry.At(now),
		UserID:    user.ID,
	}
	return mailbox, db.Instance.Create(&mailbox).Error
}

// EmailDomains returns the configured mailbox domains, site config first,
// environment second. Never empty.
func EmailDomains() []string {
	domainString, ok := SiteConfigGet("EMAIL_DOMAINS")
	if !ok || domainString == "" {
		domainString = config.EMAIL_DOMAINS
	}
	domains := []string{}
	for _, d := range strings.Split(domainString, ",") {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		domains = append(domains, "tmail.local")
	}
	return domains
}

// MailboxCountsForUser returns total/active/expired counts for one user
func MailboxCountsForUser(tx *gorm.DB, userID uint64, now time.Time) (total, active, expired int, err error) {
	mailboxes := []Mailbox{}
	if err = tx.Where("user_id = ?", userID).Find(&mailboxes).Error; err != nil {
		return 0, 0, 0, err
	}
	for i := range mailboxes {
		if mailboxes[i].Expired(now) {
			expired++
		} else {
			active++
		}
	}
	return len(mailboxes), active, expired, nil
}
