package world_test

import (
	"strings"
	"testing"

	"astrogen/internal/lookup"
	"astrogen/internal/world"
)

const (
	testSector    = "Spinward Marches"
	testSubsector = "Trin"

	lineTraltha    = "Traltha       2834 B590630-6    De He Ni An        410 Im F5 V           "
	lineHammermium = "Hammermium    2936 A5525AB-B    Ni Po Da        A  535 Im M3 V           "
	lineTrin       = "Trin          3235 A894A96-F  A Hi In Cp Ht        101 Im G0 V           "
	lineChamois    = "Chamois       3139 B544642-5  S Ag Ni Lt           723 Im F9 V           "
	lineNoGas      = "NoGasWorld    3333 C786430-8    Ag Ni              430 Im K4 V           "
	lineObscuria   = "Obscuria      4001 D878565-7    De He An Ni        413 Im K1 V           "
)

func decode(t *testing.T, line string) world.World {
	t.Helper()
	w, ok := world.Decode(testSector, testSubsector, line, 0)
	if !ok {
		t.Fatalf("expected line to decode: %q", line)
	}
	return w
}

func TestDecodeTraltha(t *testing.T) {
	w := decode(t, lineTraltha)
	if w.Name != "Traltha" {
		t.Fatalf("name: got %q", w.Name)
	}
	if w.Hex != "2834" {
		t.Fatalf("hex: got %q", w.Hex)
	}
	if w.UWP != "B590630-6" {
		t.Fatalf("uwp: got %q", w.UWP)
	}
	if w.Allegiance != "Imperium" {
		t.Fatalf("allegiance: got %q", w.Allegiance)
	}
	if w.TradeCodes != "De Ni" {
		t.Fatalf("trade codes: got %q", w.TradeCodes)
	}
	if w.Bases != "" {
		t.Fatalf("bases: got %q", w.Bases)
	}
	if w.GasGiant != "" {
		t.Fatalf("gas giant: got %q", w.GasGiant)
	}
	if w.Stellar != "F5 V" {
		t.Fatalf("stellar: got %q", w.Stellar)
	}
	if w.Sector != testSector || w.Subsector != testSubsector || w.SubsectorIndex != 0 {
		t.Fatalf("unexpected identity: %+v", w)
	}
}

func TestDecodeHammermium(t *testing.T) {
	w := decode(t, lineHammermium)
	if w.Name != "Hammermium" || w.Hex != "2936" || w.UWP != "A5525AB-B" {
		t.Fatalf("unexpected identity: %+v", w)
	}
	if w.TradeCodes != "Ni Po" {
		t.Fatalf("trade codes: got %q", w.TradeCodes)
	}
	if w.GasGiant != "G" {
		t.Fatalf("gas giant: got %q", w.GasGiant)
	}
	if w.Stellar != "M3 V" {
		t.Fatalf("stellar: got %q", w.Stellar)
	}
	if w.Zone != "A" {
		t.Fatalf("zone: got %q", w.Zone)
	}
}

func TestDecodeTrinRemapsBaseCode(t *testing.T) {
	w := decode(t, lineTrin)
	if w.TradeCodes != "Hi In Ht" {
		t.Fatalf("trade codes: got %q", w.TradeCodes)
	}
	if w.Bases != "N S" {
		t.Fatalf("bases: got %q", w.Bases)
	}
	if w.GasGiant != "G" || w.Stellar != "G0 V" {
		t.Fatalf("unexpected gas giant/stellar: %q %q", w.GasGiant, w.Stellar)
	}
	if !w.Population.Known || w.Population.Value != 10 {
		t.Fatalf("population: got %+v", w.Population)
	}
}

func TestDecodeGasGiantPresence(t *testing.T) {
	if got := decode(t, lineChamois).GasGiant; got != "G" {
		t.Fatalf("expected gas giant for Chamois, got %q", got)
	}
	if got := decode(t, lineNoGas).GasGiant; got != "" {
		t.Fatalf("expected no gas giant, got %q", got)
	}
}

func TestDecodeFiltersUnknownTradeCodes(t *testing.T) {
	if got := decode(t, lineObscuria).TradeCodes; got != "De Ni" {
		t.Fatalf("trade codes: got %q", got)
	}
}

func TestDecodeCountsColumnsInCharacters(t *testing.T) {
	line := "Chéri         2834 B590630-6    De He Ni An        410 Im F5 V           "
	if len(line) <= len([]rune(line)) {
		t.Fatalf("fixture should contain a multi-byte character")
	}
	w := decode(t, line)
	if w.Name != "Chéri" || w.Hex != "2834" || w.UWP != "B590630-6" {
		t.Fatalf("unexpected identity columns: %q %q %q", w.Name, w.Hex, w.UWP)
	}
	if w.TradeCodes != "De Ni" || w.PBG != "410" || w.AllegianceCode != "Im" || w.Stellar != "F5 V" {
		t.Fatalf("columns shifted: trade %q pbg %q allegiance %q stellar %q", w.TradeCodes, w.PBG, w.AllegianceCode, w.Stellar)
	}
	if w.Population.Value != 6 || !w.Population.Known {
		t.Fatalf("population: got %+v", w.Population)
	}
}

func TestDecodeNonASCIIUWPCharacterIsUnknown(t *testing.T) {
	w := decode(t, withUWP(lineTraltha, "B5906é0-6"))
	if w.Government != "é" {
		t.Fatalf("government: got %q", w.Government)
	}
	if w.GovernmentText != lookup.Unknown {
		t.Fatalf("government text: got %q", w.GovernmentText)
	}
	if w.Stellar != "F5 V" {
		t.Fatalf("stellar: got %q", w.Stellar)
	}
}

func TestDecodeRejectsShortAndMalformedLines(t *testing.T) {
	tests := map[string]string{
		"short":          "Oops",
		"one short":      lineTraltha[:world.MinLineLength-1],
		"empty":          "",
		"wide but short": strings.Repeat("é", 40),
		"uwp too short":  "Traltha       2834 B59063       De He Ni An        410 Im F5 V           ",
		"uwp blank":      "Traltha       2834              De He Ni An        410 Im F5 V           ",
	}
	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			if _, ok := world.Decode(testSector, testSubsector, line, 0); ok {
				t.Fatalf("expected no record for %q", line)
			}
		})
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	for _, line := range []string{lineTraltha, lineHammermium, lineTrin, lineChamois, lineNoGas, lineObscuria} {
		first, ok1 := world.Decode(testSector, testSubsector, line, 3)
		second, ok2 := world.Decode(testSector, testSubsector, line, 3)
		if ok1 != ok2 || first != second {
			t.Fatalf("decode not deterministic for %q", line)
		}
	}
}

func TestDecodeUnknownDigits(t *testing.T) {
	line := withUWP(lineTraltha, "X5XXXXX-X")
	w := decode(t, line)
	if w.Hydrographics.Known || w.Population.Known {
		t.Fatalf("expected absent numerics for X, got %+v %+v", w.Hydrographics, w.Population)
	}
	if w.Hydrographics.String() != "" {
		t.Fatalf("expected empty rendering for absent digit, got %q", w.Hydrographics.String())
	}
	if w.StarportText != "No starport" {
		t.Fatalf("starport text: got %q", w.StarportText)
	}
	if w.GovernmentText != lookup.Unknown || w.LawText != lookup.Unknown || w.TechText != lookup.Unknown {
		t.Fatalf("expected Unknown texts, got %q %q %q", w.GovernmentText, w.LawText, w.TechText)
	}
}

func TestDecodeHexDigits(t *testing.T) {
	w := decode(t, withUWP(lineTraltha, "A7A5A00-C"))
	if !w.Hydrographics.Known || w.Hydrographics.Value != 5 {
		t.Fatalf("hydrographics: got %+v", w.Hydrographics)
	}
	if !w.Population.Known || w.Population.Value != 10 {
		t.Fatalf("population: got %+v", w.Population)
	}
}

func TestDecodeBaseRemapping(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		remarks string
		want    string
	}{
		{"A becomes naval and scout", "A", "Ni", "N S"},
		{"F becomes zhodani and military", "F", "Ni", "Z M"},
		{"other codes pass through", "W", "Ni", "W"},
		{"research station appended", "S", "Ni RsE", "S RS"},
		{"research station after remap", "A", "RsE Hi", "N S RS"},
		{"research station without base", "", "RsE", " RS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := withBaseAndRemarks(lineTraltha, tt.base, tt.remarks)
			if got := decode(t, line).Bases; got != tt.want {
				t.Fatalf("bases: got %q want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeNameNormalization(t *testing.T) {
	line := "New_Rome      2834 B590630-6    De He Ni An        410 Im F5 V           "
	if got := decode(t, line).Name; got != "New Rome" {
		t.Fatalf("name: got %q", got)
	}
	line = "1st_Landing   2834 B590630-6    De He Ni An        410 Im F5 V           "
	if got := decode(t, line).Name; got != world.NameEscape+"1st Landing" {
		t.Fatalf("name: got %q", got)
	}
}

func TestDecodeUnmappedAllegiance(t *testing.T) {
	line := lineTraltha[:55] + "Qq" + lineTraltha[57:]
	w := decode(t, line)
	if w.Allegiance != "" || w.AllegianceCode != "Qq" {
		t.Fatalf("unexpected allegiance %q (%q)", w.Allegiance, w.AllegianceCode)
	}
}

func TestDecodeIsTotalForArbitraryLongInput(t *testing.T) {
	inputs := []string{
		strings.Repeat("\xff", 80),
		strings.Repeat(" ", world.MinLineLength),
		strings.Repeat("é", 40),
		"Traltha       2834 B590630-6    De He Ni An        4",
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("decode panicked for %q: %v", in, r)
				}
			}()
			world.Decode(testSector, testSubsector, in, 0)
		}()
	}
}

func withUWP(line, uwp string) string {
	return line[:19] + uwp + line[28:]
}

func withBaseAndRemarks(line, base, remarks string) string {
	b := []byte(line)
	b[30] = ' '
	if base != "" {
		b[30] = base[0]
	}
	field := []byte(strings.Repeat(" ", 15))
	copy(field, remarks)
	copy(b[32:47], field)
	return string(b)
}
