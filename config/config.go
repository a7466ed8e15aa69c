package config

import (
	"os"
	"strings"
)

var (
	TLS_DOMAINS   = ""            // e.g. "example.com,example2.com"
	MYSQL_DSN     = ""            // MySQL will be used if this is set
	SQLITE_FILE   = ""            // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS  = "0.0.0.0:8080"
	DEBUG_MODE    = true
	EMAIL_DOMAINS = "tmail.local" // comma-separated; first entry is used for new mailboxes
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("EMAIL_DOMAINS", &EMAIL_DOMAINS)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}
