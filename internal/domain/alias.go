package domain

import "time"

// AliasRecord maps an alias to its target URL. Records are immutable once stored.
type AliasRecord struct {
	Alias     string
	TargetURL string
	CreatedAt time.Time
}

// ClickEvent is one recorded resolution of an alias.
// Referrer and UserAgent are raw request headers and may be empty.
type ClickEvent struct {
	Alias     string
	Timestamp time.Time
	Referrer  string
	UserAgent string
}
