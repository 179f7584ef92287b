package ledger

import "strings"

// Normalizer maps raw ledger client names to canonical client names through
// an exact-match alias table. Several raw names may fold into one canonical
// name; unmapped names pass through unchanged, so normalizing an already
// canonical name is a no-op.
type Normalizer struct {
	aliases map[string]string
}

func NewNormalizer(aliases map[string]string) *Normalizer {
	m := make(map[string]string, len(aliases))
	for raw, canonical := range aliases {
		m[strings.TrimSpace(raw)] = strings.TrimSpace(canonical)
	}
	return &Normalizer{aliases: m}
}

// Canonical resolves a raw client name to its canonical form.
func (n *Normalizer) Canonical(raw string) string {
	name := strings.TrimSpace(raw)
	if canonical, ok := n.aliases[name]; ok {
		return canonical
	}
	return name
}

// DefaultAliases is the production alias table: the two Meridian billing
// entities were consolidated into one client in 2024, and Acme was invoiced
// under its registered LLC name during the first year.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Meridian Labs North": "Meridian Labs",
		"Meridian Labs South": "Meridian Labs",
		"Acme Logistics LLC":  "Acme Logistics",
	}
}
