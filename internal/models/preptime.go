package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PrepTime is the canonical preparation time of a recipe in whole minutes.
// Minutes is only meaningful when Valid is true. Raw keeps the text the value
// was parsed from so unparseable input survives a round trip.
type PrepTime struct {
	Minutes int
	Valid   bool
	Raw     string
}

// Minutes returns a valid PrepTime of m minutes.
func Minutes(m int) PrepTime {
	return PrepTime{Minutes: m, Valid: true, Raw: strconv.Itoa(m)}
}

// ParsePrepTime reads the leading integer of raw ("15 minutes" -> 15).
// Leading whitespace and a single sign are accepted; anything after the
// digits is ignored. Input without leading digits yields an invalid PrepTime.
func ParsePrepTime(raw string) PrepTime {
	raw = strings.TrimSpace(raw)
	pt := PrepTime{Raw: raw}
	if raw == "" {
		return pt
	}
	end := 0
	if raw[0] == '+' || raw[0] == '-' {
		end = 1
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return pt
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return pt
	}
	pt.Minutes = n
	pt.Valid = true
	return pt
}

// String renders the value for display.
func (p PrepTime) String() string {
	if p.Valid && (p.Raw == "" || p.Raw == strconv.Itoa(p.Minutes)) {
		return fmt.Sprintf("%d min", p.Minutes)
	}
	return p.Raw
}

// IsZero reports whether no prep time was given at all.
func (p PrepTime) IsZero() bool {
	return !p.Valid && p.Raw == ""
}

// MarshalJSON writes minutes as a number, unparsed text as a string and an
// absent value as null.
func (p PrepTime) MarshalJSON() ([]byte, error) {
	switch {
	case p.Valid:
		return []byte(strconv.Itoa(p.Minutes)), nil
	case p.Raw != "":
		return json.Marshal(p.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, a string or null.
func (p *PrepTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = PrepTime{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("prepTime: %w", err)
		}
		*p = ParsePrepTime(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("prepTime: %w", err)
	}
	*p = ParsePrepTime(n.String())
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for seed files.
func (p *PrepTime) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("prepTime: %w", err)
	}
	*p = ParsePrepTime(s)
	return nil
}
