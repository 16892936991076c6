package pitch

import (
	"fmt"
	"sort"

	"github.com/jsphweid/pitchnamer/constants"
	"github.com/jsphweid/pitchnamer/model"
)

var chromatic = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// letters along the line of fifths, starting at F
const fifths = "FCGDAEB"

var accidentals = [5]string{"bb", "b", "", "#", "##"}

var spelled = buildSpelledTable()

func buildSpelledTable() [constants.TpcMax - constants.TpcMin + 1]string {
	var res [constants.TpcMax - constants.TpcMin + 1]string
	for i := range res {
		res[i] = string(fifths[i%7]) + accidentals[i/7]
	}
	return res
}

// NameForTpc returns the spelled note name for a tonal pitch class.
// Values outside the double-flat to double-sharp table fall back to a
// sharp-only chromatic name and never fail.
func NameForTpc(tpc int) string {
	if tpc >= constants.TpcMin && tpc <= constants.TpcMax {
		return spelled[tpc-constants.TpcMin]
	}
	return chromatic[((tpc-constants.TpcC)%12+12)%12]
}

func dedupByChord(occurrences []model.NoteOccurrence) []model.NoteOccurrence {
	seen := make(map[model.ChordKey]bool)
	var res []model.NoteOccurrence
	for _, o := range occurrences {
		key := o.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, o)
	}
	return res
}

// ExtractLabeledPitches keeps the first occurrence of every chord, names it
// and orders the result by measure, tick and track.
func ExtractLabeledPitches(occurrences []model.NoteOccurrence) []model.LabeledPitch {
	res := make([]model.LabeledPitch, 0, len(occurrences))
	for _, o := range dedupByChord(occurrences) {
		res = append(res, model.LabeledPitch{
			Name:    NameForTpc(o.TPC),
			Pitch:   o.Pitch,
			Measure: o.Measure,
			Tick:    o.Tick,
			Offset:  o.Offset,
			Track:   o.Track,
		})
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Measure != res[j].Measure {
			return res[i].Measure < res[j].Measure
		}
		if res[i].Tick != res[j].Tick {
			return res[i].Tick < res[j].Tick
		}
		return res[i].Track < res[j].Track
	})
	return res
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// MidiPitchName turns a MIDI key number into a name like C4.
func MidiPitchName(pitch int) string {
	return fmt.Sprintf("%s%d", chromatic[(pitch%12+12)%12], floorDiv(pitch, 12)-1)
}

// sharp spellings of the twelve pitch classes, as line-of-fifths steps from C
var sharpFifths = [12]int{0, 7, 2, 9, 4, -1, 6, 1, 8, 3, 10, 5}

// TpcForMidiPitch spells a MIDI key with sharps, for notes that carry no
// spelling of their own.
func TpcForMidiPitch(pitch int) int {
	return constants.TpcC + sharpFifths[(pitch%12+12)%12]
}

// Beat is the 1-based beat of an offset into a measure.
func Beat(offset, division int) float64 {
	if division <= 0 {
		division = constants.DefaultDivision
	}
	return float64(offset)/float64(division) + 1
}
