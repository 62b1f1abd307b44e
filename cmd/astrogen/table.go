package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"astrogen/internal/world"
)

type tableColumn struct {
	title string
	align text.Align
	// wrap soft-wraps cells wider than this; zero leaves them alone.
	wrap int
}

var (
	worldColumns = []tableColumn{
		{title: "Name", align: text.AlignLeft},
		{title: "Location", align: text.AlignRight},
		{title: "UWP", align: text.AlignLeft},
		{title: "Bases", align: text.AlignLeft},
		{title: "Trade", align: text.AlignLeft, wrap: 18},
		{title: "Zone", align: text.AlignCenter},
		{title: "GG", align: text.AlignCenter},
		{title: "Allegiance", align: text.AlignLeft, wrap: 20},
		{title: "Stellar", align: text.AlignLeft, wrap: 16},
	}
	sectorColumns = []tableColumn{
		{title: "#", align: text.AlignRight},
		{title: "Sector", align: text.AlignLeft},
	}
	fieldColumns = []tableColumn{
		{title: "Field", align: text.AlignLeft},
		{title: "Value", align: text.AlignLeft},
	}
)

func worldRow(w world.World) []string {
	return []string{w.Name, w.Location(), w.UWP, w.Bases, w.TradeCodes, w.Zone, w.GasGiant, w.Allegiance, w.Stellar}
}

// renderTable pads short rows and drops cells beyond the column count.
func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
		}
		if col.wrap > 0 {
			configs[i].WidthMax = col.wrap
			configs[i].WidthMaxEnforcer = text.WrapSoft
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
