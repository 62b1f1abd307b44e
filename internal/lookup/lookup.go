package lookup

import "strings"

func byteText(table map[byte]string, code byte) string {
	if text, ok := table[code]; ok {
		return text
	}
	return Unknown
}

// Starport describes a starport class.
func Starport(code byte) string { return byteText(starportTypes, code) }

// Size describes a world size digit.
func Size(code byte) string { return byteText(sizeTypes, code) }

// Atmosphere describes an atmosphere digit.
func Atmosphere(code byte) string { return byteText(atmosphereTypes, code) }

// Hydrographics describes a hydrographic percentage digit.
func Hydrographics(code byte) string { return byteText(hydrographicsTypes, code) }

// Population describes a population exponent digit.
func Population(code byte) string { return byteText(populationTypes, code) }

// Government describes a government type digit.
func Government(code byte) string { return byteText(governmentTypes, code) }

// LawLevel describes a law level digit.
func LawLevel(code byte) string { return byteText(lawLevelTypes, code) }

// TechLevel describes a tech level digit.
func TechLevel(code byte) string { return byteText(techLevelTypes, code) }

// TradeCode reports the description for a trade code and whether it is known.
func TradeCode(code string) (string, bool) {
	text, ok := tradeCodeTypes[code]
	return text, ok
}

// IsTradeCode reports whether code belongs to the trade code table.
func IsTradeCode(code string) bool {
	_, ok := tradeCodeTypes[code]
	return ok
}

// Allegiance returns the polity name for a two-character allegiance code, or
// an empty string when the code is unmapped.
func Allegiance(code string) string {
	return allegianceTypes[strings.TrimSpace(code)]
}

// DescribeBases expands a space-separated base descriptor ("N S RS") into
// readable names, skipping codes that have no table entry.
func DescribeBases(bases string) []string {
	fields := strings.Fields(bases)
	out := make([]string, 0, len(fields))
	for _, code := range fields {
		if text, ok := baseTypes[code]; ok {
			out = append(out, text)
		}
	}
	return out
}
