package isotope

import (
	"fmt"
	"strings"
)

// TimeUnit is the unit a half-life or a time axis is expressed in.
type TimeUnit int

const (
	Seconds TimeUnit = iota + 1
	Minutes
	Hours
	Days
	Years
)

const (
	minute = 60.0
	hour   = 60 * minute
	day    = 24 * hour
	year   = 365.25 * day
)

// Units lists every unit from shortest to longest.
var Units = []TimeUnit{Seconds, Minutes, Hours, Days, Years}

// Seconds returns the length of one u in seconds, or 0 for an invalid unit.
func (u TimeUnit) Seconds() float64 {
	switch u {
	case Seconds:
		return 1
	case Minutes:
		return minute
	case Hours:
		return hour
	case Days:
		return day
	case Years:
		return year
	}
	return 0
}

func (u TimeUnit) Valid() bool { return u.Seconds() > 0 }

func (u TimeUnit) String() string {
	switch u {
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	case Years:
		return "years"
	}
	return fmt.Sprintf("TimeUnit(%d)", int(u))
}

// Short is the compact symbol used on axis labels.
func (u TimeUnit) Short() string {
	switch u {
	case Seconds:
		return "s"
	case Minutes:
		return "min"
	case Hours:
		return "h"
	case Days:
		return "d"
	case Years:
		return "y"
	}
	return "?"
}

// Next cycles through Units, wrapping after Years.
func (u TimeUnit) Next() TimeUnit {
	for i, v := range Units {
		if v == u {
			return Units[(i+1)%len(Units)]
		}
	}
	return Seconds
}

// ParseTimeUnit accepts plural, singular and short names, case-insensitively.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sec", "second", "seconds":
		return Seconds, nil
	case "min", "minute", "minutes":
		return Minutes, nil
	case "h", "hr", "hour", "hours":
		return Hours, nil
	case "d", "day", "days":
		return Days, nil
	case "y", "yr", "year", "years":
		return Years, nil
	}
	return 0, fmt.Errorf("unknown time unit %q", s)
}

// Convert rescales a duration v from one unit to another.
func Convert(v float64, from, to TimeUnit) float64 {
	if from == to {
		return v
	}
	return v * from.Seconds() / to.Seconds()
}

func (u TimeUnit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid time unit %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *TimeUnit) UnmarshalText(b []byte) error {
	v, err := ParseTimeUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
