package isotope

import (
	"fmt"
	"strconv"
	"strings"
)

// Record holds the physical constants of one isotope.
// Records are values; the registry hands out copies.
type Record struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	HalfLife     float64  `json:"half_life"`
	HalfLifeUnit TimeUnit `json:"half_life_unit"`
	DecayMode    string   `json:"decay_mode"`
	Applications string   `json:"applications"`
}

// HalfLifeIn returns the half-life expressed in unit u.
func (r Record) HalfLifeIn(u TimeUnit) float64 {
	return Convert(r.HalfLife, r.HalfLifeUnit, u)
}

// HalfLifeText renders the half-life for humans, e.g. "5730 years".
func (r Record) HalfLifeText() string {
	v := strconv.FormatFloat(r.HalfLife, 'g', 6, 64)
	if r.HalfLife == 1 {
		return v + " " + strings.TrimSuffix(r.HalfLifeUnit.String(), "s")
	}
	return v + " " + r.HalfLifeUnit.String()
}

// Title is the label used by selectors: "Carbon-14 (C-14)".
func (r Record) Title() string {
	if r.Name == "" || r.Name == r.ID {
		return r.ID
	}
	return fmt.Sprintf("%s (%s)", r.Name, r.ID)
}

func (r Record) validate() error {
	if r.ID == "" {
		return fmt.Errorf("isotope: empty id")
	}
	if !(r.HalfLife > 0) {
		return fmt.Errorf("isotope %s: half-life must be positive, got %v", r.ID, r.HalfLife)
	}
	if !r.HalfLifeUnit.Valid() {
		return fmt.Errorf("isotope %s: invalid half-life unit %v", r.ID, r.HalfLifeUnit)
	}
	return nil
}
