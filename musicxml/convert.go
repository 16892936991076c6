package musicxml

import (
	"github.com/jsphweid/pitchnamer/constants"
	"github.com/jsphweid/pitchnamer/model"
)

// voice slots reserved per part when numbering tracks
const tracksPerPart = 16

type Options struct {
	From int
	To   int
}

func (o Options) includes(no int) bool {
	return (o.From <= 0 || no >= o.From) && (o.To <= 0 || no <= o.To)
}

// Score is the occurrence view of a MusicXML document. Ticks are normalized
// to the default division whatever the file declares.
type Score struct {
	occurrences []model.NoteOccurrence
}

func (s *Score) Occurrences() []model.NoteOccurrence {
	return s.occurrences
}

func (s *Score) Division() int {
	return constants.DefaultDivision
}

type builder struct {
	divisions int
	partIdx   int
	res       []model.NoteOccurrence
}

func (br *builder) ticks(d int) int {
	return d * constants.DefaultDivision / br.divisions
}

func track(partIdx int, n Note) int {
	staff, voice := n.Staff, n.Voice
	if staff < 1 {
		staff = 1
	}
	if voice < 1 {
		voice = 1
	}
	slot := (staff-1)*4 + (voice - 1)
	if slot >= tracksPerPart {
		slot = tracksPerPart - 1
	}
	return partIdx*tracksPerPart + slot
}

func (br *builder) buildPart(part Part, opts Options) {
	br.divisions = 1
	var measureStart int
	for idx, measure := range part.Measures {
		no := measure.Number
		if !measure.Numbered {
			no = idx + 1
		}

		var cursor, lastStart, longest int
		for _, event := range measure.Events {
			switch v := event.(type) {
			case Attributes:
				if v.Divisions > 0 {
					br.divisions = v.Divisions
				}
			case Backup:
				cursor -= v.Duration
				if cursor < 0 {
					cursor = 0
				}
			case Forward:
				cursor += v.Duration
			case Note:
				if v.Grace.Local != "" {
					continue
				}
				start := cursor
				if v.Chord.Local != "" {
					start = lastStart
				} else {
					cursor += v.Duration
				}
				lastStart = start
				if cursor > longest {
					longest = cursor
				}
				if v.Rest.Local != "" || v.Pitch.Step == "" || !opts.includes(no) {
					continue
				}
				offset := br.ticks(start)
				br.res = append(br.res, model.NoteOccurrence{
					TPC:      v.Pitch.TPC(),
					Pitch:    v.Pitch.Key(),
					Measure:  no,
					Tick:     measureStart + offset,
					Offset:   offset,
					Duration: br.ticks(v.Duration),
					Track:    track(br.partIdx, v),
				})
			}
			if cursor > longest {
				longest = cursor
			}
		}
		measureStart += br.ticks(longest)
	}
}

// Collect walks every part of the document.
func (d *MXLDoc) Collect(opts Options) *Score {
	var br builder
	for i, part := range d.Parts {
		br.partIdx = i
		br.buildPart(part, opts)
	}
	return &Score{occurrences: br.res}
}
