package ids

import (
	"github.com/google/uuid"
)

// Generator produces identifiers for new entities
type Generator interface {
	// NewID returns a fresh identifier with the given prefix, e.g. "h_..."
	NewID(prefix string) string
}

// UUIDGenerator implements Generator with random (v4) UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns prefix followed by a random UUID
func (g *UUIDGenerator) NewID(prefix string) string {
	return prefix + uuid.NewString()
}
