package models

import (
	"sync"
	"testing"
	"tmail/db"
)

var testDBOnce sync.Once

// testInit points db.Instance at a shared in-memory SQLite DB and runs the
// migrations once per test binary.
func testInit(t *testing.T) {
	t.Helper()
	testDBOnce.Do(func() {
		db.InitTest()
		Init()
	})
}

func testUser(t *testing.T, username string) *User {
	t.Helper()
	user, err := UserCreate(username, username, username+"@example.com", "secret-"+username)
	if err != nil {
		t.Fatalf("UserCreate(%q): %v", username, err)
	}
	return &user
}
