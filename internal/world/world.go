package world

import (
	"fmt"
	"strconv"
)

// SubsectorCount is the number of subsectors in a sector (A through P).
const SubsectorCount = 16

// SubsectorMetadata identifies one subsector of a sector.
type SubsectorMetadata struct {
	Name  string
	Index int
}

// Letter returns the subsector letter (A-P) for the index, or "?" when the
// index is out of range.
func (m SubsectorMetadata) Letter() string {
	return SubsectorLetter(m.Index)
}

// SubsectorLetter maps a 0-15 subsector index to its letter.
func SubsectorLetter(index int) string {
	if index < 0 || index >= SubsectorCount {
		return "?"
	}
	return string(rune('A' + index))
}

// ParseSubsectorIndex accepts either a subsector letter (A-P, any case) or a
// decimal index and returns the 0-15 index.
func ParseSubsectorIndex(value string) (int, error) {
	if len(value) == 1 {
		c := value[0] | 0x20
		if c >= 'a' && c <= 'p' {
			return int(c - 'a'), nil
		}
	}
	index, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("subsector index %q: expected letter A-P or number 0-15", value)
	}
	if index < 0 || index >= SubsectorCount {
		return 0, fmt.Errorf("subsector index %d out of range 0-%d", index, SubsectorCount-1)
	}
	return index, nil
}

// Digit is an optional base-16 UWP value. Known is false when the source
// character was X or otherwise not a hex digit.
type Digit struct {
	Value int
	Known bool
}

// String renders the decimal value, or an empty string when unknown.
func (d Digit) String() string {
	if !d.Known {
		return ""
	}
	return strconv.Itoa(d.Value)
}

// World is one decoded star system. Values are built by Decode and are not
// modified afterwards.
type World struct {
	Name           string
	Sector         string
	Subsector      string
	SubsectorIndex int
	Hex            string
	UWP            string

	Starport      string
	Size          string
	Atmosphere    string
	Hydrographics Digit
	Population    Digit
	Government    string
	Law           string
	Tech          string

	StarportText      string
	SizeText          string
	AtmosphereText    string
	HydrographicsText string
	PopulationText    string
	GovernmentText    string
	LawText           string
	TechText          string

	Bases          string
	Remarks        string
	TradeCodes     string
	Zone           string
	PBG            string
	GasGiant       string
	AllegianceCode string
	Allegiance     string
	Stellar        string
}

// Location formats the subsector letter and hex, e.g. "A 0101".
func (w World) Location() string {
	return SubsectorLetter(w.SubsectorIndex) + " " + w.Hex
}
