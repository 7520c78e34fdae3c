package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID hands out random (v4) identifiers, unique for the lifetime of a data dir.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
