package file

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/pitchnamer/model"
	"github.com/jsphweid/pitchnamer/musicxml"
	"github.com/jsphweid/pitchnamer/score"
	"github.com/pkg/errors"
)

type Kind string

const (
	Mscx     Kind = "mscx"
	Mscz     Kind = "mscz"
	MusicXML Kind = "musicxml"
	Mxl      Kind = "mxl"
)

var extensions = map[string]Kind{
	".mscx":     Mscx,
	".mscz":     Mscz,
	".musicxml": MusicXML,
	".xml":      MusicXML,
	".mxl":      Mxl,
}

func KindOf(path string) (Kind, bool) {
	k, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return k, ok
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimPrefix(s, ".")))
	if k == "xml" {
		k = MusicXML
	}
	switch k {
	case Mscx, Mscz, MusicXML, Mxl:
		return k, nil
	}
	return "", errors.Errorf("unknown score type %q", s)
}

// IsMuseScore reports whether labels can be written back into this kind.
func (k Kind) IsMuseScore() bool {
	return k == Mscx || k == Mscz
}

type Range struct {
	From int
	To   int
}

// Open loads a score file as a Source.
func Open(path string, r Range) (model.Source, error) {
	kind, ok := KindOf(path)
	if !ok {
		return nil, errors.Errorf("%v is not a score file", path)
	}
	if kind.IsMuseScore() {
		return score.Open(path, score.Options{From: r.From, To: r.To})
	}
	doc, err := musicxml.Open(path)
	if err != nil {
		return nil, err
	}
	return doc.Collect(musicxml.Options{From: r.From, To: r.To}), nil
}

// Read loads a score of the given kind from a stream, as the HTTP API
// receives it.
func Read(r io.Reader, kind Kind, rng Range) (model.Source, error) {
	switch kind {
	case Mscx:
		return score.Parse(r, score.Options{From: rng.From, To: rng.To})
	case MusicXML:
		doc, err := musicxml.Parse(r)
		if err != nil {
			return nil, err
		}
		return doc.Collect(musicxml.Options{From: rng.From, To: rng.To}), nil
	}

	// archives need random access
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read upload")
	}
	reader := bytes.NewReader(data)
	switch kind {
	case Mscz:
		return score.ParseArchive(reader, int64(len(data)), score.Options{From: rng.From, To: rng.To})
	case Mxl:
		doc, err := musicxml.ParseArchive(reader, int64(len(data)))
		if err != nil {
			return nil, err
		}
		return doc.Collect(musicxml.Options{From: rng.From, To: rng.To}), nil
	}
	return nil, errors.Errorf("unknown score type %q", kind)
}

// OutputPath names an output after the score, e.g. song.mscz -> dir/song_pitches.txt.
func OutputPath(dir, scorePath, suffix string) string {
	base := filepath.Base(scorePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+suffix)
}

// GatherAllScorePaths expands directories into the score files below them.
// Plain file arguments are kept as given.
func GatherAllScorePaths(paths []string, maxNum int) ([]string, error) {
	var res []string
	add := func(p string) bool {
		if maxNum != 0 && len(res) >= maxNum {
			return false
		}
		res = append(res, p)
		return true
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "could not stat %v", p)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		walk := func(s string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := KindOf(s); ok {
				if !add(s) {
					return filepath.SkipAll
				}
			}
			return nil
		}
		if err := filepath.WalkDir(p, walk); err != nil {
			return nil, errors.Wrapf(err, "could not walk %v", p)
		}
	}
	return res, nil
}
