// Package score reads MuseScore save files into note occurrences and writes
// chord labels back into them as staff text.
package score

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jsphweid/pitchnamer/constants"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/pkg/errors"
	"github.com/subchen/go-xmldom"
)

// Options restricts collection to a 1-based, inclusive measure range. Zero
// leaves that side open.
type Options struct {
	From int
	To   int
}

func (o Options) includes(no int) bool {
	if o.From > 0 && no < o.From {
		return false
	}
	if o.To > 0 && no > o.To {
		return false
	}
	return true
}

type Document struct {
	raw         []byte
	division    int
	measures    int
	occurrences []model.NoteOccurrence
	chords      map[model.ChordKey]*xmldom.Node
	// document order of every Chord element, grace chords included
	ordinals map[*xmldom.Node]int
	labels   map[int]string
}

func Open(path string, opts Options) (*Document, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mscz") {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open archive %v", path)
		}
		defer zr.Close()
		return parseArchive(&zr.Reader, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open score %v", path)
	}
	defer f.Close()
	return Parse(f, opts)
}

// ParseArchive reads a compressed .mscz held in r.
func ParseArchive(r io.ReaderAt, size int64, opts Options) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "could not read archive")
	}
	return parseArchive(zr, opts)
}

func scoreMember(files []*zip.File) *zip.File {
	for _, f := range files {
		name := f.Name
		if strings.HasSuffix(name, ".mscx") || (!strings.Contains(name, ".") && !strings.HasSuffix(name, "/")) {
			return f
		}
	}
	if len(files) > 0 {
		return files[0]
	}
	return nil
}

func parseArchive(zr *zip.Reader, opts Options) (*Document, error) {
	member := scoreMember(zr.File)
	if member == nil {
		return nil, errors.New("archive is empty")
	}
	slog.Debug("reading score from archive", "member", member.Name)

	rc, err := member.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %v in archive", member.Name)
	}
	defer rc.Close()
	return Parse(rc, opts)
}

// Parse reads an uncompressed .mscx document.
func Parse(r io.Reader, opts Options) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read score")
	}
	doc, err := xmldom.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse score")
	}
	if doc.Root == nil {
		return nil, errors.New("score has no root element")
	}

	d := &Document{
		raw:      raw,
		division: findDivision(doc.Root),
		chords:   make(map[model.ChordKey]*xmldom.Node),
		ordinals: make(map[*xmldom.Node]int),
		labels:   make(map[int]string),
	}
	numberChords(doc.Root, d.ordinals)
	root := firstNamed(doc.Root, "Score")
	if root == nil {
		root = doc.Root
	}
	for staffIdx, staff := range staves(root) {
		d.collectStaff(staff, staffIdx, opts)
	}

	slog.Debug("collected score", "division", d.division, "measures", d.measures, "notes", len(d.occurrences))
	return d, nil
}

var (
	_ model.Source    = (*Document)(nil)
	_ model.Annotator = (*Document)(nil)
)

func (d *Document) Occurrences() []model.NoteOccurrence {
	return d.occurrences
}

func (d *Document) Division() int {
	return d.division
}

// Measures counts the collected measures over all staves.
func (d *Document) Measures() int {
	return d.measures
}

// ApplyLabels puts a staff text above every labeled chord. Labels whose chord
// is not part of this document are skipped.
func (d *Document) ApplyLabels(labels []model.LabeledPitch) int {
	var applied int
	for _, l := range labels {
		chord, ok := d.chords[l.Key()]
		if !ok {
			continue
		}
		d.labels[d.ordinals[chord]] = l.Name
		applied++
	}
	return applied
}

// WriteTo writes the source document with the applied labels spliced in.
// Everything else is copied byte for byte.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	out, err := splice(d.raw, d.labels)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return int64(n), errors.Wrap(err, "could not write score")
}

func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %v", path)
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "could not close %v", path)
}

func numberChords(n *xmldom.Node, res map[*xmldom.Node]int) {
	for _, c := range n.Children {
		if c.Name == "Chord" {
			res[c] = len(res)
		}
		numberChords(c, res)
	}
}

func findDivision(root *xmldom.Node) int {
	if n := firstNamed(root, "Division"); n != nil {
		if v, err := strconv.Atoi(text(n)); err == nil && v > 0 {
			return v
		}
	}
	return constants.DefaultDivision
}

// staves returns the Staff children that carry music. Staff elements inside a
// Part only describe the staff.
func staves(root *xmldom.Node) []*xmldom.Node {
	var res []*xmldom.Node
	for _, s := range root.GetChildren("Staff") {
		if len(s.GetChildren("Measure")) > 0 {
			res = append(res, s)
		}
	}
	return res
}

func firstNamed(n *xmldom.Node, name string) *xmldom.Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if found := firstNamed(c, name); found != nil {
			return found
		}
	}
	return nil
}

func text(n *xmldom.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

func childInt(n *xmldom.Node, name string) (int, bool) {
	v, err := strconv.Atoi(text(n.GetChild(name)))
	if err != nil {
		return 0, false
	}
	return v, true
}
