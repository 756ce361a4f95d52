// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Pillar is one of the four evaluation dimensions.
type Pillar uint8

// Pillars in canonical order. The order is significant: it breaks ties
// when picking the weakest pillar.
const (
	PillarPhysical Pillar = iota + 1
	PillarTechnical
	PillarTactical
	PillarPsychological
)

var pillarNames = map[Pillar]string{
	PillarPhysical:      "PHYSICAL",
	PillarTechnical:     "TECHNICAL",
	PillarTactical:      "TACTICAL",
	PillarPsychological: "PSYCHOLOGICAL",
}

// Pillars returns all pillars in canonical order.
func Pillars() []Pillar {
	return []Pillar{PillarPhysical, PillarTechnical, PillarTactical, PillarPsychological}
}

// String returns the upper-case pillar name.
func (p Pillar) String() string {
	if name, ok := pillarNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Pillar(%d)", uint8(p))
}

// Valid reports whether p is one of the four known pillars.
func (p Pillar) Valid() bool {
	_, ok := pillarNames[p]
	return ok
}

// ParsePillar parses a pillar name, case-insensitively.
func ParsePillar(s string) (Pillar, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for p, n := range pillarNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPillar, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pillar) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPillar, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pillar) UnmarshalText(b []byte) error {
	parsed, err := ParsePillar(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
