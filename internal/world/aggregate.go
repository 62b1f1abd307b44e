package world

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines normalizes CRLF and bare CR separators and returns the
// non-blank lines of blob in order.
func SplitLines(blob string) []string {
	raw := strings.Split(lineBreaks.Replace(blob), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// AggregateResult is the outcome of decoding one subsector.
type AggregateResult struct {
	Subsector SubsectorMetadata
	Worlds    []World
	Lines     int
	Rejected  int
}

// Aggregate decodes every candidate line of a subsector blob. Lines that do
// not decode are counted in Rejected and otherwise ignored; the i-th world in
// the result is the i-th line that decoded successfully.
func Aggregate(sector string, meta SubsectorMetadata, blob string) AggregateResult {
	lines := SplitLines(blob)
	result := AggregateResult{
		Subsector: meta,
		Worlds:    make([]World, 0, len(lines)),
		Lines:     len(lines),
	}
	for _, line := range lines {
		w, ok := Decode(sector, meta.Name, line, meta.Index)
		if !ok {
			result.Rejected++
			continue
		}
		result.Worlds = append(result.Worlds, w)
	}
	return result
}
