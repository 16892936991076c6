package score

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/jsphweid/pitchnamer/constants"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/subchen/go-xmldom"
)

// a staff owns four voice tracks
const voicesPerStaff = 4

// note values as multiples of a quarter, {num, den}
var durationTypes = map[string][2]int{
	"long":    {16, 1},
	"breve":   {8, 1},
	"whole":   {4, 1},
	"half":    {2, 1},
	"quarter": {1, 1},
	"eighth":  {1, 2},
	"16th":    {1, 4},
	"32nd":    {1, 8},
	"64th":    {1, 16},
	"128th":   {1, 32},
	"256th":   {1, 64},
}

var graceTags = []string{
	"acciaccatura", "appoggiatura",
	"grace4", "grace8", "grace16", "grace32",
	"grace8after", "grace16after", "grace32after",
}

func (d *Document) collectStaff(staff *xmldom.Node, staffIdx int, opts Options) {
	var tick int
	sigN, sigD := 4, 4

	for idx, m := range staff.GetChildren("Measure") {
		no := idx + 1
		if v, err := strconv.Atoi(m.GetAttributeValue("no")); err == nil {
			no = v
		}

		// a time signature holds until the next one
		if ts := firstNamed(m, "TimeSig"); ts != nil {
			n, okN := childInt(ts, "sigN")
			dd, okD := childInt(ts, "sigD")
			if okN && okD && n > 0 && dd > 0 {
				sigN, sigD = n, dd
			}
		}
		length := sigN * d.division * 4 / sigD
		if l, ok := d.parseFraction(m.GetAttributeValue("len")); ok && l > 0 {
			length = l
		}

		if opts.includes(no) {
			d.collectMeasure(m, no, staffIdx, tick, length)
			d.measures++
		}
		tick += length
	}
}

func (d *Document) collectMeasure(m *xmldom.Node, no, staffIdx, start, length int) {
	voices := m.GetChildren("voice")
	if len(voices) == 0 {
		voices = []*xmldom.Node{m}
	}
	for v, voice := range voices {
		track := staffIdx*voicesPerStaff + v
		d.collectVoice(voice, no, track, start, length)
	}
}

func (d *Document) collectVoice(voice *xmldom.Node, no, track, start, length int) {
	var pos int
	tupletN, tupletD := 1, 1

	for _, el := range voice.Children {
		switch el.Name {
		case "Tuplet":
			normal, okN := childInt(el, "normalNotes")
			actual, okA := childInt(el, "actualNotes")
			if okN && okA && normal > 0 && actual > 0 {
				tupletN, tupletD = normal, actual
			}
		case "endTuplet":
			tupletN, tupletD = 1, 1
		case "location":
			if f, ok := d.parseFraction(text(el.GetChild("fractions"))); ok {
				pos += f
			}
		case "Rest":
			pos += d.duration(el, length) * tupletN / tupletD
		case "Chord":
			if isGrace(el) {
				continue
			}
			at := pos
			if v, err := strconv.Atoi(el.GetAttributeValue("tick")); err == nil {
				if v < length {
					at = v
				} else {
					at = v - start
				}
			}
			dur := d.duration(el, length) * tupletN / tupletD
			d.collectChord(el, no, track, start, at, dur)
			pos = at + dur
		}
	}
}

func (d *Document) collectChord(chord *xmldom.Node, no, track, start, at, dur int) {
	key := model.ChordKey{Measure: no, Tick: start + at, Track: track}
	for _, note := range chord.GetChildren("Note") {
		p, ok := childInt(note, "pitch")
		if !ok {
			continue
		}
		tpc := pitch.TpcForMidiPitch(p)
		if v, ok := childInt(note, "tpc"); ok {
			tpc = v + constants.MuseScoreTpcOffset
		}

		o := model.NoteOccurrence{
			TPC:      tpc,
			Pitch:    p,
			Measure:  no,
			Tick:     key.Tick,
			Offset:   at,
			Duration: dur,
			Track:    track,
		}
		d.occurrences = append(d.occurrences, o)
		if _, ok := d.chords[key]; !ok {
			d.chords[key] = chord
		}
		logFirstNotes(len(d.occurrences), o)
	}
}

func (d *Document) duration(el *xmldom.Node, measureLen int) int {
	if dt := text(el.GetChild("durationType")); dt != "" {
		if dt == "measure" {
			if l, ok := d.parseFraction(text(el.GetChild("duration"))); ok {
				return l
			}
			return measureLen
		}
		if q, ok := durationTypes[dt]; ok {
			base := d.division * q[0] / q[1]
			dots, _ := childInt(el, "dots")
			total, add := base, base
			for i := 0; i < dots; i++ {
				add /= 2
				total += add
			}
			return total
		}
	}

	if raw := text(el.GetChild("duration")); raw != "" {
		if l, ok := d.parseFraction(raw); ok {
			return l
		}
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return d.division
}

// parseFraction converts "n/d" of a whole note into ticks.
func (d *Document) parseFraction(s string) (int, bool) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	dd, err := strconv.Atoi(den)
	if err != nil || dd == 0 {
		return 0, false
	}
	return n * d.division * 4 / dd, true
}

func isGrace(chord *xmldom.Node) bool {
	for _, tag := range graceTags {
		if chord.GetChild(tag) != nil {
			return true
		}
	}
	return false
}

func logFirstNotes(count int, o model.NoteOccurrence) {
	if count > 5 {
		return
	}
	slog.Debug("found note", "pitch", pitch.MidiPitchName(o.Pitch), "measure", o.Measure, "tick", o.Tick)
}
