// Package report renders labeled pitches as the flat text files the
// extraction commands write.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/pitchnamer/model"
	"github.com/jsphweid/pitchnamer/pitch"
	"github.com/jsphweid/pitchnamer/util"
	"github.com/pkg/errors"
)

const title = "Pitch Extraction Report"

func heading(w *bufio.Writer, text string, rule byte) {
	fmt.Fprintln(w, text)
	fmt.Fprintln(w, strings.Repeat(string(rule), len(text)))
}

func groupByMeasure(labels []model.LabeledPitch) map[int][]string {
	res := make(map[int][]string)
	for _, l := range labels {
		res[l.Measure] = append(res[l.Measure], l.Name)
	}
	return res
}

// Names returns the label names in order.
func Names(labels []model.LabeledPitch) []string {
	res := make([]string, 0, len(labels))
	for _, l := range labels {
		res = append(res, l.Name)
	}
	return res
}

// WriteText writes the header, a per-measure listing and a comma-separated
// summary. source is the name shown in the header.
func WriteText(w io.Writer, source string, labels []model.LabeledPitch) error {
	bw := bufio.NewWriter(w)

	heading(bw, title, '=')
	fmt.Fprintf(bw, "Source: %v\n", source)
	fmt.Fprintf(bw, "Total pitches: %v\n", len(labels))
	fmt.Fprintln(bw)

	heading(bw, "Pitch Names (in order)", '-')
	if len(labels) == 0 {
		fmt.Fprintln(bw, "(none)")
	}
	byMeasure := groupByMeasure(labels)
	for _, measure := range util.GetSortedKeys(byMeasure) {
		fmt.Fprintf(bw, "Measure %v: %v\n", measure, strings.Join(byMeasure[measure], " "))
	}
	fmt.Fprintln(bw)

	heading(bw, "Pitch Names (comma-separated)", '-')
	if len(labels) == 0 {
		fmt.Fprintln(bw, "(none)")
	} else {
		fmt.Fprintln(bw, strings.Join(Names(labels), ", "))
	}

	return errors.Wrap(bw.Flush(), "could not write report")
}

// Position formats where a label sits, like M3:2.50.
func Position(l model.LabeledPitch, division int) string {
	return fmt.Sprintf("M%v:%.2f", l.Measure, pitch.Beat(l.Offset, division))
}

// DisplayName prefers the octave name when the MIDI key is known.
func DisplayName(l model.LabeledPitch) string {
	if l.Pitch < 0 {
		return l.Name
	}
	return pitch.MidiPitchName(l.Pitch)
}

// WritePositions writes one "name<TAB>position<TAB>(tick: n)" line per label.
func WritePositions(w io.Writer, division int, labels []model.LabeledPitch) error {
	bw := bufio.NewWriter(w)
	for _, l := range labels {
		fmt.Fprintf(bw, "%v\t%v\t(tick: %v)\n", DisplayName(l), Position(l, division), l.Tick)
	}
	return errors.Wrap(bw.Flush(), "could not write positions")
}
