package model

// Source is anything that can hand over the notes of a score, already
// reduced to plain occurrences.
type Source interface {
	Occurrences() []NoteOccurrence
	// ticks per quarter note
	Division() int
}

// Annotator attaches labels to the document a Source came from. It returns
// how many labels found their chord.
type Annotator interface {
	ApplyLabels(labels []LabeledPitch) int
}
