package valueobject

import (
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const MaxTargetURLLength = 2048

// TargetURL is a value object representing the absolute URL an alias redirects to.
type TargetURL struct {
	value  string
	parsed *url.URL
}

// NewTargetURL validates rawURL as an absolute http(s) URL with a host.
// The scheme is matched case-insensitively.
func NewTargetURL(rawURL string) (TargetURL, error) {
	if err := validation.Validate(rawURL,
		validation.Required.Error("URL is required"),
		validation.Length(1, MaxTargetURLLength).Error("URL is too long"),
	); err != nil {
		return TargetURL{}, ErrInvalidURL
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return TargetURL{}, ErrInvalidURL
	}

	// url.Parse lowercases the scheme; is.URL only knows lowercase ones.
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return TargetURL{}, ErrInvalidURL
	}
	normalized := parsed.Scheme + rawURL[len(parsed.Scheme):]
	if err := validation.Validate(normalized, is.URL.Error("invalid URL format")); err != nil {
		return TargetURL{}, ErrInvalidURL
	}

	if parsed.Host == "" {
		return TargetURL{}, ErrInvalidURL
	}

	return TargetURL{
		value:  rawURL,
		parsed: parsed,
	}, nil
}

func (t TargetURL) String() string {
	return t.value
}

// Host returns the host portion of the URL.
func (t TargetURL) Host() string {
	if t.parsed == nil {
		return ""
	}
	return t.parsed.Host
}

func (t TargetURL) IsEmpty() bool {
	return t.value == ""
}
