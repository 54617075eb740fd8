package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the service configuration.
type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Shortener *Shortener `json:"shortener"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

// Data_Database selects the alias store and click log backend.
// Driver is one of "memory", "sqlite3" or "postgres".
type Data_Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Data_Redis configures the optional read-through cache. An empty Addr disables it.
type Data_Redis struct {
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	Db           int       `json:"db"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
	CacheTtl     *Duration `json:"cache_ttl"`
}

type Shortener struct {
	AliasLength    int `json:"alias_length"`
	MaxAttempts    int `json:"max_attempts"`
	RecorderBuffer int `json:"recorder_buffer"`
}

const (
	DefaultAliasLength    = 7
	DefaultMaxAttempts    = 5
	DefaultRecorderBuffer = 1024
)

// Normalize fills zero values with defaults and clamps the alias length to 6-8.
func (s *Shortener) Normalize() *Shortener {
	out := Shortener{AliasLength: DefaultAliasLength, MaxAttempts: DefaultMaxAttempts, RecorderBuffer: DefaultRecorderBuffer}
	if s == nil {
		return &out
	}
	if s.AliasLength >= 6 && s.AliasLength <= 8 {
		out.AliasLength = s.AliasLength
	}
	if s.MaxAttempts > 0 {
		out.MaxAttempts = s.MaxAttempts
	}
	if s.RecorderBuffer > 0 {
		out.RecorderBuffer = s.RecorderBuffer
	}
	return &out
}

// Duration is a time.Duration that decodes from strings such as "1.5s".
// A bare number is a count of seconds.
type Duration struct {
	time.Duration
}

func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// AsDuration returns the wrapped value, or zero for a nil receiver.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}
