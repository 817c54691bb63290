// Package id generates identifiers for simulation objects.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// NewIDGenerator returns a sequential ID generator. IDs produced by a
// sequential generator are deterministic across runs.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewUniqueIDGenerator returns a generator whose IDs are globally unique but
// not deterministic.
func NewUniqueIDGenerator() IDGenerator {
	return uniqueIDGenerator{}
}

var defaultGenerator = NewIDGenerator()

// Generate returns the next ID from the default sequential generator.
func Generate() string {
	return defaultGenerator.Generate()
}

// Unique returns a globally unique ID, suitable for naming output files.
func Unique() string {
	return xid.New().String()
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

type uniqueIDGenerator struct{}

func (g uniqueIDGenerator) Generate() string {
	return Unique()
}
