package models

import (
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMailboxExpiryFromMs(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ms   *int64
		want time.Time
	}{
		{"nil is permanent", nil, MailboxNeverExpires},
		{"zero is permanent", int64Ptr(0), MailboxNeverExpires},
		{"one hour", int64Ptr(3600000), now.Add(time.Hour)},
		{"90 seconds", int64Ptr(90000), now.Add(90 * time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiry := MailboxExpiryFromMs(tt.ms)
			if got := expiry.At(now); !got.Equal(tt.want) {
				t.Errorf("At(now) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMailboxExpired(t *testing.T) {
	now := time.Now()
	m := Mailbox{ExpiresAt: now.Add(-time.Minute)}
	if !m.Expired(now) {
		t.Error("past mailbox not reported expired")
	}
	m.ExpiresAt = now.Add(time.Minute)
	if m.Expired(now) {
		t.Error("future mailbox reported expired")
	}
	m.ExpiresAt = MailboxNeverExpires
	if m.Expired(now) {
		t.Error("permanent mailbox reported expired")
	}
}

func TestEmailDomains(t *testing.T) {
	testInit(t)

	domains := EmailDomains()
	if len(domains) == 0 {
		t.Fatal("EmailDomains returned nothing")
	}

	if err := SiteConfigSet("EMAIL_DOMAINS", "first.example, second.example"); err != nil {
		t.Fatalf("SiteConfigSet: %v", err)
	}
	domains = EmailDomains()
	if len(domains) != 2 || domains[0] != "first.example" || domains[1] != "second.example" {
		t.Errorf("EmailDomains = %v, want [first.example second.example]", domains)
	}

	// Back to the env default for the other tests
	if err := SiteConfigSet("EMAIL_DOMAINS", ""); err != nil {
		t.Fatalf("SiteConfigSet reset: %v", err)
	}
}

func TestMailboxProvisionAddress(t *testing.T) {
	testInit(t)

	tests := []struct {
		name      string
		username  string // in-memory value passed to the provisioner
		email     string
		display   string
		wantLocal string
	}{
		{"username preferred", "alice", "other@example.com", "Alice", "alice"},
		{"email local part fallback", "", "bob@example.com", "Bob", "bob"},
		{"display name fallback", "", "", "carol", "carol"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The stored username is always unique; the fallback cases
			// blank it in memory before provisioning
			stored := tt.username
			if stored == "" {
				stored = "mbx-unused-" + string(rune('a'+i))
			}
			u, err := UserCreate(tt.display, stored, tt.email, "pw")
			if err != nil {
				t.Fatalf("UserCreate: %v", err)
			}
			u.Username = tt.username
			mailbox, err := MailboxProvision(&u, MailboxExpiry{Permanent: true}, time.Now())
			if err != nil {
				t.Fatalf("MailboxProvision: %v", err)
			}
			wantAddress := tt.wantLocal + "@" + EmailDomains()[0]
			if mailbox.Address != wantAddress {
				t.Errorf("address = %q, want %q", mailbox.Address, wantAddress)
			}
			if !mailbox.ExpiresAt.Equal(MailboxNeverExpires) {
				t.Errorf("permanent mailbox expires at %v", mailbox.ExpiresAt)
			}
		})
	}
}
