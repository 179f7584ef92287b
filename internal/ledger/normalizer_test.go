package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalFoldsAliases(t *testing.T) {
	n := NewNormalizer(DefaultAliases())

	assert.Equal(t, "Meridian Labs", n.Canonical("Meridian Labs North"))
	assert.Equal(t, "Meridian Labs", n.Canonical("Meridian Labs South"))
	assert.Equal(t, "Acme Logistics", n.Canonical("Acme Logistics LLC"))
}

func TestCanonicalIsIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultAliases())

	once := n.Canonical("Meridian Labs North")
	assert.Equal(t, once, n.Canonical(once))
}

func TestCanonicalPassesThroughUnmappedNames(t *testing.T) {
	n := NewNormalizer(DefaultAliases())

	assert.Equal(t, "Northwind Traders", n.Canonical("Northwind Traders"))
	assert.Equal(t, "Northwind Traders", n.Canonical("  Northwind Traders  "))
}

func TestCanonicalExactMatchOnly(t *testing.T) {
	n := NewNormalizer(map[string]string{"X Co": "X"})

	// no fuzzy matching
	assert.Equal(t, "x co", n.Canonical("x co"))
	assert.Equal(t, "X Co.", n.Canonical("X Co."))
}
