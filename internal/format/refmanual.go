package format

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	mdtable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"astrogen/internal/fileutil"
	"astrogen/internal/lookup"
	"astrogen/internal/progress"
	"astrogen/internal/world"
)

//go:embed refmanual.html.tmpl
var refManualSource string

var refManualTemplate = template.Must(template.New("refmanual").Parse(refManualSource))

// RefManualEmitter writes a narrative reference manual as HTML and Markdown.
type RefManualEmitter struct {
	markdown *converter.Converter
}

// NewRefManualEmitter returns the reference manual emitter.
func NewRefManualEmitter() *RefManualEmitter {
	return &RefManualEmitter{
		markdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				mdtable.NewTablePlugin(),
			),
		),
	}
}

// Format reports RefManual.
func (*RefManualEmitter) Format() Format { return RefManual }

// Emit writes "<sector> Reference Manual.html" and its Markdown rendering.
func (e *RefManualEmitter) Emit(_ context.Context, job Job, sink progress.Sink) ([]string, error) {
	if sink == nil {
		sink = progress.Discard
	}
	stem := filepath.Join(job.OutputDir, artifactBase(job.SectorName)+" Reference Manual")
	htmlPath := stem + ".html"
	mdPath := stem + ".md"

	page, err := RenderRefManual(job.SectorName, job.Worlds)
	if err != nil {
		return nil, emissionError("render reference manual", err)
	}
	if err := fileutil.WriteFileAtomic(htmlPath, page, 0o644); err != nil {
		return nil, emissionError("write reference manual", err)
	}
	sink.Send("Reference manual written: " + htmlPath)

	md, err := e.markdown.ConvertString(string(page))
	if err != nil {
		return nil, emissionError("convert reference manual", err)
	}
	if err := fileutil.WriteFileAtomic(mdPath, []byte(md+"\n"), 0o644); err != nil {
		return nil, emissionError("write reference manual markdown", err)
	}
	sink.Send("Reference manual written: " + mdPath)

	return []string{htmlPath, mdPath}, nil
}

type manual struct {
	Sector     string
	Total      int
	Subsectors []manualSubsector
}

type manualSubsector struct {
	Letter string
	Name   string
	Worlds []manualWorld
}

type manualWorld struct {
	Name       string
	Hex        string
	UWP        string
	Bases      string
	TradeCodes string
	Zone       string
	Summary    string
	Facts      []fact
}

type fact struct {
	Label string
	Value string
}

// RenderRefManual renders the HTML manual. Worlds are grouped into runs of the
// same subsector without reordering.
func RenderRefManual(sector string, worlds []world.World) ([]byte, error) {
	data := manual{Sector: sector, Total: len(worlds)}
	for _, w := range worlds {
		n := len(data.Subsectors)
		if n == 0 || data.Subsectors[n-1].Name != w.Subsector || data.Subsectors[n-1].Letter != world.SubsectorLetter(w.SubsectorIndex) {
			data.Subsectors = append(data.Subsectors, manualSubsector{
				Letter: world.SubsectorLetter(w.SubsectorIndex),
				Name:   w.Subsector,
			})
			n++
		}
		data.Subsectors[n-1].Worlds = append(data.Subsectors[n-1].Worlds, describeWorld(w))
	}

	var buf bytes.Buffer
	if err := refManualTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func describeWorld(w world.World) manualWorld {
	facts := []fact{
		{"Starport", codeText(w.Starport, w.StarportText)},
		{"Size", codeText(w.Size, w.SizeText)},
		{"Atmosphere", codeText(w.Atmosphere, w.AtmosphereText)},
		{"Hydrographics", digitText(w.Hydrographics, w.HydrographicsText)},
		{"Population", digitText(w.Population, w.PopulationText)},
		{"Government", codeText(w.Government, w.GovernmentText)},
		{"Law Level", codeText(w.Law, w.LawText)},
		{"Tech Level", codeText(w.Tech, w.TechText)},
	}
	if bases := lookup.DescribeBases(w.Bases); len(bases) > 0 {
		facts = append(facts, fact{"Bases", strings.Join(bases, ", ")})
	}
	if trade := describeTradeCodes(w.TradeCodes); trade != "" {
		facts = append(facts, fact{"Trade Codes", trade})
	}
	if zone := zoneText(w.Zone); zone != "" {
		facts = append(facts, fact{"Travel Zone", zone})
	}
	if w.GasGiant != "" {
		facts = append(facts, fact{"Gas Giant", "Present"})
	}
	if w.Allegiance != "" {
		facts = append(facts, fact{"Allegiance", w.Allegiance})
	} else if w.AllegianceCode != "" {
		facts = append(facts, fact{"Allegiance", w.AllegianceCode})
	}
	if w.Stellar != "" {
		facts = append(facts, fact{"Stellar", w.Stellar})
	}

	return manualWorld{
		Name:       w.Name,
		Hex:        w.Hex,
		UWP:        w.UWP,
		Bases:      w.Bases,
		TradeCodes: w.TradeCodes,
		Zone:       w.Zone,
		Summary:    summarize(w),
		Facts:      facts,
	}
}

func summarize(w world.World) string {
	return fmt.Sprintf("%s is located at hex %s of the %s subsector (UWP %s). Starport: %s.",
		w.Name, w.Hex, w.Subsector, w.UWP, strings.ToLower(w.StarportText))
}

func codeText(code, text string) string {
	if code == "" {
		return text
	}
	return code + " (" + text + ")"
}

func digitText(d world.Digit, text string) string {
	if !d.Known {
		return text
	}
	return d.String() + " (" + text + ")"
}

func describeTradeCodes(codes string) string {
	tokens := strings.Fields(codes)
	parts := make([]string, 0, len(tokens))
	for _, code := range tokens {
		if desc, ok := lookup.TradeCode(code); ok {
			parts = append(parts, code+" ("+desc+")")
		}
	}
	return strings.Join(parts, ", ")
}

func zoneText(zone string) string {
	switch zone {
	case "A":
		return "Amber"
	case "R":
		return "Red"
	default:
		return ""
	}
}
