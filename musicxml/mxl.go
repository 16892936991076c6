// Package musicxml reads partwise MusicXML, plain or compressed, into note
// occurrences.
package musicxml

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/jsphweid/pitchnamer/constants"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// MXLDoc holds the parts of a partwise score
type MXLDoc struct {
	XMLName xml.Name `xml:"score-partwise"`
	Parts   []Part   `xml:"part"`
}

type Part struct {
	Id       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// Measure keeps notes and cursor moves in document order
type Measure struct {
	Number int
	// false when the number attribute is missing or not an integer
	Numbered bool
	Events   []interface{}
}

func (m *Measure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "number" {
			if v, err := strconv.Atoi(attr.Value); err == nil {
				m.Number, m.Numbered = v, true
			}
		}
	}

	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch t.Name.Local {
			case "attributes":
				var a Attributes
				if err := d.DecodeElement(&a, &t); err != nil {
					return err
				}
				m.Events = append(m.Events, a)
			case "note":
				var n Note
				if err := d.DecodeElement(&n, &t); err != nil {
					return err
				}
				m.Events = append(m.Events, n)
			case "backup":
				var b Backup
				if err := d.DecodeElement(&b, &t); err != nil {
					return err
				}
				m.Events = append(m.Events, b)
			case "forward":
				var f Forward
				if err := d.DecodeElement(&f, &t); err != nil {
					return err
				}
				m.Events = append(m.Events, f)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		}
	}
}

type Attributes struct {
	Divisions int `xml:"divisions"`
}

type Backup struct {
	Duration int `xml:"duration"`
}

type Forward struct {
	Duration int `xml:"duration"`
}

type Note struct {
	Pitch    Pitch    `xml:"pitch"`
	Duration int      `xml:"duration"`
	Voice    int      `xml:"voice"`
	Staff    int      `xml:"staff"`
	Chord    xml.Name `xml:"chord"`
	Rest     xml.Name `xml:"rest"`
	Grace    xml.Name `xml:"grace"`
}

type Pitch struct {
	Step   string  `xml:"step"`
	Alter  float64 `xml:"alter"`
	Octave int     `xml:"octave"`
}

// steps on the line of fifths relative to C and in semitones above C
var stepFifths = map[string]int{"F": -1, "C": 0, "G": 1, "D": 2, "A": 3, "E": 4, "B": 5}
var stepSemis = map[string]int{"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11}

func (p Pitch) TPC() int {
	return constants.TpcC + stepFifths[p.Step] + 7*int(p.Alter)
}

// Key returns the MIDI key number.
func (p Pitch) Key() int {
	return 12*(p.Octave+1) + stepSemis[p.Step] + int(p.Alter)
}

// Parse decodes MusicXML from r, honoring the declared encoding.
func Parse(r io.Reader) (*MXLDoc, error) {
	var doc MXLDoc
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "could not decode musicxml")
	}
	if len(doc.Parts) == 0 {
		return nil, errors.New("musicxml has no parts (only score-partwise is read)")
	}
	return &doc, nil
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

func rootfile(zr *zip.Reader) (*zip.File, error) {
	byName := make(map[string]*zip.File)
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	if c, ok := byName["META-INF/container.xml"]; ok {
		rc, err := c.Open()
		if err != nil {
			return nil, errors.Wrap(err, "could not open container.xml")
		}
		defer rc.Close()
		var meta container
		if err := xml.NewDecoder(rc).Decode(&meta); err == nil && len(meta.Rootfiles) > 0 {
			if f, ok := byName[meta.Rootfiles[0].FullPath]; ok {
				return f, nil
			}
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".musicxml", ".xml":
			return f, nil
		}
	}
	return nil, errors.New("archive holds no musicxml file")
}

// ParseArchive reads a compressed .mxl held in r.
func ParseArchive(r io.ReaderAt, size int64) (*MXLDoc, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "could not read archive")
	}
	return parseRootfile(zr)
}

func parseRootfile(zr *zip.Reader) (*MXLDoc, error) {
	f, err := rootfile(zr)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %v in archive", f.Name)
	}
	defer rc.Close()
	return Parse(rc)
}

// Open reads a .musicxml, .xml or .mxl file.
func Open(filename string) (*MXLDoc, error) {
	if strings.EqualFold(path.Ext(filename), ".mxl") {
		zr, err := zip.OpenReader(filename)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open archive %v", filename)
		}
		defer zr.Close()
		return parseRootfile(&zr.Reader)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open musicxml %v", filename)
	}
	defer f.Close()
	return Parse(f)
}

var _ model.Source = (*Score)(nil)
