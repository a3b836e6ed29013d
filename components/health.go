package components

import "fmt"

// Health is the disease state of an agent.
type Health uint8

const (
	Susceptible Health = iota
	Infected
	Removed
	Died
)

var healthNames = [...]string{
	Susceptible: "susceptible",
	Infected:    "infected",
	Removed:     "removed",
	Died:        "died",
}

// String returns the lowercase state name.
func (h Health) String() string {
	if int(h) < len(healthNames) {
		return healthNames[h]
	}
	return fmt.Sprintf("health(%d)", uint8(h))
}

// Terminal reports whether no further transition is possible.
func (h Health) Terminal() bool {
	return h == Removed || h == Died
}

// MarshalText implements encoding.TextMarshaler.
func (h Health) MarshalText() ([]byte, error) {
	if int(h) >= len(healthNames) {
		return nil, fmt.Errorf("unknown health %d", uint8(h))
	}
	return []byte(healthNames[h]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Health) UnmarshalText(text []byte) error {
	for i, name := range healthNames {
		if name == string(text) {
			*h = Health(i)
			return nil
		}
	}
	return fmt.Errorf("unknown health %q", text)
}
