package event

// Compile-time interface check
var _ Event = AliasCreated{}

// AliasCreated is raised when a new alias record is stored.
type AliasCreated struct {
	Base
	Alias     string `json:"alias"`
	TargetURL string `json:"target_url"`
	Generated bool   `json:"generated"`
}

func NewAliasCreated(alias, targetURL string, generated bool) AliasCreated {
	return AliasCreated{
		Base:      NewBase(alias),
		Alias:     alias,
		TargetURL: targetURL,
		Generated: generated,
	}
}

func (e AliasCreated) EventName() string {
	return AliasCreatedName
}
