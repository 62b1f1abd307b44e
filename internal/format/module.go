package format

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"astrogen/internal/fileutil"
	"astrogen/internal/progress"
	"astrogen/internal/textutil"
	"astrogen/internal/world"
)

const (
	// DefinitionFileName and DatabaseFileName are the fixed archive entry names.
	DefinitionFileName = "definition.xml"
	DatabaseFileName   = "db.xml"

	moduleVersion = "4.1"
	xmlHeader     = `<?xml version="1.0" encoding="iso-8859-1"?>` + "\n"
)

const definitionTemplate = `<?xml version="1.0" encoding="iso-8859-1"?>
<root>
  <name>${sector}</name>
  <author>Traveller Data Generator</author>
  <category>Traveller</category>
  <ruleset>Traveller</ruleset>
</root>
`

// RecordKey returns the database key of the world at 0-based position i.
func RecordKey(i int) string {
	return fmt.Sprintf("id-%05d", i+1)
}

// ModuleEmitter writes a Fantasy Grounds module: db.xml, definition.xml, and
// a .mod archive bundling both.
type ModuleEmitter struct{}

// NewModuleEmitter returns the module emitter.
func NewModuleEmitter() *ModuleEmitter { return &ModuleEmitter{} }

// Format reports Module.
func (*ModuleEmitter) Format() Format { return Module }

// Emit writes the three module artifacts in order: database, definition, archive.
func (*ModuleEmitter) Emit(_ context.Context, job Job, sink progress.Sink) ([]string, error) {
	if sink == nil {
		sink = progress.Discard
	}
	dbPath := filepath.Join(job.OutputDir, DatabaseFileName)
	defPath := filepath.Join(job.OutputDir, DefinitionFileName)
	modPath := filepath.Join(job.OutputDir, artifactBase(job.SectorName)+" Worlds.mod")

	var db bytes.Buffer
	if err := WriteDatabase(&db, job.Worlds); err != nil {
		return nil, emissionError("encode database", err)
	}
	if err := fileutil.WriteFileAtomic(dbPath, db.Bytes(), 0o644); err != nil {
		return nil, emissionError("write database", err)
	}
	sink.Send(fmt.Sprintf("Database written: %s (%d records)", dbPath, len(job.Worlds)))

	definition, err := Definition(job.SectorName)
	if err != nil {
		return nil, emissionError("encode definition", err)
	}
	if err := fileutil.WriteFileAtomic(defPath, definition, 0o644); err != nil {
		return nil, emissionError("write definition", err)
	}
	sink.Send("Definition written: " + defPath)

	entries := []archiveEntry{
		{name: DefinitionFileName, data: definition},
		{name: DatabaseFileName, data: db.Bytes()},
	}
	if err := fileutil.WriteAtomic(modPath, 0o644, func(w io.Writer) error {
		return writeArchive(w, entries)
	}); err != nil {
		return nil, emissionError("write archive", err)
	}
	size, err := fileutil.FileSize(modPath)
	if err != nil {
		return nil, emissionError("stat archive", err)
	}
	sink.Send(fmt.Sprintf("Created module archive: %s (%d bytes)", modPath, size))

	return []string{dbPath, defPath, modPath}, nil
}

// Definition renders definition.xml for sector in ISO-8859-1.
func Definition(sector string) ([]byte, error) {
	var escaped strings.Builder
	if err := xml.EscapeText(&escaped, []byte(sector)); err != nil {
		return nil, err
	}
	text := strings.Replace(definitionTemplate, "${sector}", escaped.String(), 1)
	return latin1Encoder().Bytes([]byte(text))
}

// latin1Encoder turns characters outside ISO-8859-1 into numeric character
// references so the output stays well-formed XML.
func latin1Encoder() *encoding.Encoder {
	return encoding.HTMLEscapeUnsupported(charmap.ISO8859_1.NewEncoder())
}

// WriteDatabase writes the db.xml document for worlds in ISO-8859-1. The k-th
// world is stored under RecordKey(k).
func WriteDatabase(w io.Writer, worlds []world.World) error {
	tw := transform.NewWriter(w, latin1Encoder())
	if _, err := io.WriteString(tw, xmlHeader); err != nil {
		return err
	}

	enc := xml.NewEncoder(tw)
	enc.Indent("", "\t")

	root := xml.StartElement{
		Name: xml.Name{Local: "root"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: moduleVersion}},
	}
	category := xml.StartElement{Name: xml.Name{Local: "world"}}

	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	if err := enc.EncodeToken(category); err != nil {
		return err
	}
	for i, wld := range worlds {
		if err := encodeRecord(enc, RecordKey(i), wld); err != nil {
			return fmt.Errorf("record %s: %w", RecordKey(i), err)
		}
	}
	if err := enc.EncodeToken(category.End()); err != nil {
		return err
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	if _, err := io.WriteString(tw, "\n"); err != nil {
		return err
	}
	return tw.Close()
}

type leaf struct {
	name  string
	kind  string
	value string
}

func stringLeaf(name, value string) leaf { return leaf{name: name, kind: "string", value: value} }

func numberLeaf(name string, value int) leaf {
	return leaf{name: name, kind: "number", value: strconv.Itoa(value)}
}

// recordLeaves lists every field of w in database order. Absent digits are
// omitted so they never read back as zero.
func recordLeaves(w world.World) []leaf {
	leaves := []leaf{
		stringLeaf("name", w.Name),
		stringLeaf("sector", w.Sector),
		stringLeaf("subsector", w.Subsector),
		numberLeaf("subsectorindex", w.SubsectorIndex),
		stringLeaf("hex", w.Hex),
		stringLeaf("uwp", w.UWP),
		stringLeaf("starport", w.Starport),
		stringLeaf("starporttext", w.StarportText),
		stringLeaf("size", w.Size),
		stringLeaf("sizetext", w.SizeText),
		stringLeaf("atmosphere", w.Atmosphere),
		stringLeaf("atmospheretext", w.AtmosphereText),
	}
	if w.Hydrographics.Known {
		leaves = append(leaves, numberLeaf("hydrographics", w.Hydrographics.Value))
	}
	leaves = append(leaves, stringLeaf("hydrographicstext", w.HydrographicsText))
	if w.Population.Known {
		leaves = append(leaves, numberLeaf("population", w.Population.Value))
	}
	leaves = append(leaves,
		stringLeaf("populationtext", w.PopulationText),
		stringLeaf("government", w.Government),
		stringLeaf("governmenttext", w.GovernmentText),
		stringLeaf("law", w.Law),
		stringLeaf("lawtext", w.LawText),
		stringLeaf("tech", w.Tech),
		stringLeaf("techtext", w.TechText),
		stringLeaf("bases", w.Bases),
		stringLeaf("remarks", w.Remarks),
		stringLeaf("tradecodes", w.TradeCodes),
		stringLeaf("zone", w.Zone),
		stringLeaf("pbg", w.PBG),
		stringLeaf("gasgiant", w.GasGiant),
		stringLeaf("allegiancecode", w.AllegianceCode),
		stringLeaf("allegiance", w.Allegiance),
		stringLeaf("stellar", w.Stellar),
	)
	return leaves
}

func encodeRecord(enc *xml.Encoder, key string, w world.World) error {
	record := xml.StartElement{Name: xml.Name{Local: key}}
	if err := enc.EncodeToken(record); err != nil {
		return err
	}
	for _, l := range recordLeaves(w) {
		el := xml.StartElement{
			Name: xml.Name{Local: l.name},
			Attr: []xml.Attr{{Name: xml.Name{Local: "type"}, Value: l.kind}},
		}
		if err := enc.EncodeElement(l.value, el); err != nil {
			return err
		}
	}
	return enc.EncodeToken(record.End())
}

type archiveEntry struct {
	name string
	data []byte
}

func writeArchive(w io.Writer, entries []archiveEntry) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	for _, entry := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: entry.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("add %s: %w", entry.name, err)
		}
		if _, err := fw.Write(entry.data); err != nil {
			return fmt.Errorf("compress %s: %w", entry.name, err)
		}
	}
	return zw.Close()
}

func artifactBase(sector string) string {
	if name := textutil.SanitizeFileName(sector); name != "" {
		return name
	}
	return "sector"
}

