package model

// ChordKey identifies the chord a note belongs to. Every note of a chord
// shares one key and therefore one label.
type ChordKey struct {
	Measure int
	Tick    int
	Track   int
}

// NoteOccurrence is one sounded pitch at one position in a score.
type NoteOccurrence struct {
	TPC int
	// MIDI key number, -1 when the source does not carry one
	Pitch    int
	Measure  int
	Tick     int
	Offset   int
	Duration int
	Track    int
}

func (n NoteOccurrence) Key() ChordKey {
	return ChordKey{Measure: n.Measure, Tick: n.Tick, Track: n.Track}
}

type LabeledPitch struct {
	Name    string `json:"name"`
	Pitch   int    `json:"pitch"`
	Measure int    `json:"measure"`
	Tick    int    `json:"tick"`
	Offset  int    `json:"offset"`
	Track   int    `json:"track"`
}

func (l LabeledPitch) Key() ChordKey {
	return ChordKey{Measure: l.Measure, Tick: l.Tick, Track: l.Track}
}
