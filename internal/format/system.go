package format

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"astrogen/internal/fileutil"
	"astrogen/internal/progress"
	"astrogen/internal/world"
)

// SystemHeaders are the column titles of the system listing.
var SystemHeaders = []string{"Subsector", "Hex", "Name", "UWP", "Bases", "Trade Codes", "Zone", "GG", "Allegiance", "Stellar"}

// SystemEmitter writes a plain-text table of every world.
type SystemEmitter struct{}

// NewSystemEmitter returns the system listing emitter.
func NewSystemEmitter() *SystemEmitter { return &SystemEmitter{} }

// Format reports System.
func (*SystemEmitter) Format() Format { return System }

// Emit writes "<sector> systems.txt".
func (*SystemEmitter) Emit(_ context.Context, job Job, sink progress.Sink) ([]string, error) {
	if sink == nil {
		sink = progress.Discard
	}
	path := filepath.Join(job.OutputDir, artifactBase(job.SectorName)+" systems.txt")
	content := RenderSystemTable(job.SectorName, job.Worlds)
	if err := fileutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return nil, emissionError("write system listing", err)
	}
	sink.Send(fmt.Sprintf("System listing written: %s (%d systems)", path, len(job.Worlds)))
	return []string{path}, nil
}

// SystemRow returns the table cells for w in SystemHeaders order.
func SystemRow(w world.World) []string {
	return []string{
		world.SubsectorLetter(w.SubsectorIndex) + " " + w.Subsector,
		w.Hex,
		w.Name,
		w.UWP,
		w.Bases,
		w.TradeCodes,
		w.Zone,
		w.GasGiant,
		w.Allegiance,
		w.Stellar,
	}
}

// RenderSystemTable renders the listing as an ASCII table with a total footer.
func RenderSystemTable(sector string, worlds []world.World) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	tw.SetTitle(sector + " systems")

	header := make(table.Row, len(SystemHeaders))
	for i, h := range SystemHeaders {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, w := range worlds {
		cells := SystemRow(w)
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}

	footer := make(table.Row, len(SystemHeaders))
	for i := range footer {
		footer[i] = ""
	}
	footer[1] = "Total"
	footer[2] = strconv.Itoa(len(worlds))
	tw.AppendFooter(footer)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 8, Align: text.AlignCenter},
	})
	return tw.Render() + "\n"
}
