package utils

import (
	"time"

	"github.com/dsurfergithub/habitorbit/internal/constants"
)

// LoadLocation resolves an IANA zone name. Empty and "Local" mean the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone reports whether LoadLocation accepts timezone
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// Clock returns a now function that reports wall-clock time in loc, so day-keys follow that zone
func Clock(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// ValidateDayKey checks if the string is a well-formed YYYY-MM-DD day-key
func ValidateDayKey(key string) bool {
	t, err := time.Parse(constants.DateFormat, key)
	return err == nil && t.Format(constants.DateFormat) == key
}
