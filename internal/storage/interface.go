//go:generate mockgen -source=interface.go -destination=mocks/mock_provider.go -package=mocks

package storage

import "errors"

// Slot names a whole-document blob held by a Provider
type Slot string

const (
	SlotHabits       Slot = "habits"
	SlotDailyHistory Slot = "dailyHistory"
	SlotCurrentDaily Slot = "currentDaily"
	SlotLastView     Slot = "lastView"
)

// AllSlots lists every slot the application writes
var AllSlots = []Slot{SlotHabits, SlotDailyHistory, SlotCurrentDaily, SlotLastView}

// ErrSlotNotFound is returned by Read when a slot has never been written
var ErrSlotNotFound = errors.New("slot not found")

// Provider is the only interface to durable storage. Each slot is read and written as a whole
// document; the last write to a slot wins.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Slots
	Read(slot Slot) ([]byte, error)
	Write(slot Slot, data []byte) error

	// Utils
	GetConfigPath() string
}
