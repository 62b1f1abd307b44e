package world

import (
	"strings"

	"astrogen/internal/lookup"
)

// MinLineLength is the shortest line Decode accepts.
const MinLineLength = 73

// NameEscape prefixes world names that begin with a digit.
const NameEscape = "_"

const uwpLength = 9

// column ranges, 0-indexed and end-exclusive
type span struct{ start, end int }

var (
	colName       = span{0, 13}
	colHex        = span{14, 18}
	colUWP        = span{19, 28}
	colBases      = span{30, 31}
	colRemarks    = span{32, 47}
	colZone       = span{48, 49}
	colPBG        = span{51, 54}
	colAllegiance = span{55, 57}
	colStellar    = span{58, 73}
)

// UWP character positions.
const (
	uwpStarport = iota
	uwpSize
	uwpAtmosphere
	uwpHydrographics
	uwpPopulation
	uwpGovernment
	uwpLaw
	_
	uwpTech
)

const researchStationFlag = "RsE"

// field slices by rune so names with accented letters keep later columns aligned.
func field(line []rune, s span) string {
	if s.start >= len(line) {
		return ""
	}
	end := min(s.end, len(line))
	return strings.TrimSpace(string(line[s.start:end]))
}

// code narrows a UWP rune to the byte the lookup tables are keyed on; anything
// outside ASCII maps to 0 and reads as Unknown.
func code(r rune) byte {
	if r > 0x7f {
		return 0
	}
	return byte(r)
}

// Decode parses one fixed-width record. Columns count characters, not bytes.
// It returns false when the line is shorter than MinLineLength characters or
// its UWP field is not exactly nine characters.
func Decode(sector, subsector, line string, subsectorIndex int) (World, bool) {
	runes := []rune(line)
	if len(runes) < MinLineLength {
		return World{}, false
	}
	uwpText := field(runes, colUWP)
	uwp := []rune(uwpText)
	if len(uwp) != uwpLength {
		return World{}, false
	}

	remarks := field(runes, colRemarks)
	allegianceCode := field(runes, colAllegiance)
	pbg := string(runes[colPBG.start:colPBG.end])

	w := World{
		Name:           normalizeName(field(runes, colName)),
		Sector:         sector,
		Subsector:      subsector,
		SubsectorIndex: subsectorIndex,
		Hex:            field(runes, colHex),
		UWP:            uwpText,

		Starport:      string(uwp[uwpStarport]),
		Size:          string(uwp[uwpSize]),
		Atmosphere:    string(uwp[uwpAtmosphere]),
		Hydrographics: hexDigit(code(uwp[uwpHydrographics])),
		Population:    hexDigit(code(uwp[uwpPopulation])),
		Government:    string(uwp[uwpGovernment]),
		Law:           string(uwp[uwpLaw]),
		Tech:          string(uwp[uwpTech]),

		StarportText:      lookup.Starport(code(uwp[uwpStarport])),
		SizeText:          lookup.Size(code(uwp[uwpSize])),
		AtmosphereText:    lookup.Atmosphere(code(uwp[uwpAtmosphere])),
		HydrographicsText: lookup.Hydrographics(code(uwp[uwpHydrographics])),
		PopulationText:    lookup.Population(code(uwp[uwpPopulation])),
		GovernmentText:    lookup.Government(code(uwp[uwpGovernment])),
		LawText:           lookup.LawLevel(code(uwp[uwpLaw])),
		TechText:          lookup.TechLevel(code(uwp[uwpTech])),

		Bases:          normalizeBases(field(runes, colBases), remarks),
		Remarks:        remarks,
		TradeCodes:     filterTradeCodes(remarks),
		Zone:           field(runes, colZone),
		PBG:            strings.TrimSpace(pbg),
		GasGiant:       gasGiant(pbg),
		AllegianceCode: allegianceCode,
		Allegiance:     lookup.Allegiance(allegianceCode),
		Stellar:        field(runes, colStellar),
	}
	return w, true
}

func normalizeName(raw string) string {
	name := strings.ReplaceAll(raw, "_", " ")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = NameEscape + name
	}
	return name
}

func hexDigit(c byte) Digit {
	switch {
	case c >= '0' && c <= '9':
		return Digit{Value: int(c - '0'), Known: true}
	case c >= 'A' && c <= 'F':
		return Digit{Value: int(c-'A') + 10, Known: true}
	case c >= 'a' && c <= 'f':
		return Digit{Value: int(c-'a') + 10, Known: true}
	default:
		return Digit{}
	}
}

func normalizeBases(code, remarks string) string {
	bases := code
	switch code {
	case "A":
		bases = "N S"
	case "F":
		bases = "Z M"
	}
	if strings.Contains(remarks, researchStationFlag) {
		bases += " RS"
	}
	return bases
}

func filterTradeCodes(remarks string) string {
	tokens := strings.Fields(remarks)
	kept := tokens[:0]
	for _, token := range tokens {
		if lookup.IsTradeCode(token) {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, " ")
}

// gasGiant inspects the third character of the PBG field.
func gasGiant(pbg string) string {
	chars := []rune(pbg)
	if len(chars) < 3 {
		return ""
	}
	if c := chars[2]; c >= '1' && c <= '9' {
		return "G"
	}
	return ""
}
