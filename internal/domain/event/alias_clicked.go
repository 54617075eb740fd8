package event

import "time"

// Compile-time interface check
var _ Event = AliasClicked{}

// AliasClicked is raised when an alias is resolved for redirection.
type AliasClicked struct {
	Base
	Alias     string    `json:"alias"`
	ClickedAt time.Time `json:"clicked_at"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

func NewAliasClicked(alias string, clickedAt time.Time, referrer, userAgent string) AliasClicked {
	return AliasClicked{
		Base:      NewBase(alias),
		Alias:     alias,
		ClickedAt: clickedAt.UTC(),
		Referrer:  referrer,
		UserAgent: userAgent,
	}
}

func (e AliasClicked) EventName() string {
	return AliasClickedName
}
