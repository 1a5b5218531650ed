// Package ids generates the identifiers used for habits and milestones.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Generator produces unique identifiers
type Generator interface {
	NewID() string
}

// UUIDGenerator issues random (version 4) UUIDs
type UUIDGenerator struct{}

// NewID returns a new random UUID string
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// Default is the generator used when a component is not given one
var Default Generator = UUIDGenerator{}

// Suffix returns a short unique token for composite ids such as milestone ids.
// Hyphens are stripped so the token never collides with a composite id separator.
func Suffix(g Generator) string {
	if g == nil {
		g = Default
	}
	return strings.ReplaceAll(g.NewID(), "-", "")
}
