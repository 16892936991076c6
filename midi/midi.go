package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/pitchnamer/constants"
	"github.com/jsphweid/pitchnamer/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const velocity = 64

type Options struct {
	Division int
	Tempo    float64
	// Rebase moves the first note to tick 0, for excerpts cut from a score.
	Rebase bool
}

func (o Options) withDefaults() Options {
	if o.Division <= 0 {
		o.Division = constants.DefaultDivision
	}
	if o.Tempo <= 0 {
		o.Tempo = constants.DefaultTempo
	}
	return o
}

type timedEvent struct {
	tick  int
	isOff bool
	key   uint8
}

func events(occurrences []model.NoteOccurrence) []timedEvent {
	var res []timedEvent
	for _, o := range occurrences {
		if o.Pitch < 0 || o.Pitch > 127 {
			continue
		}
		dur := o.Duration
		if dur <= 0 {
			dur = 1
		}
		key := uint8(o.Pitch)
		res = append(res,
			timedEvent{tick: o.Tick, key: key},
			timedEvent{tick: o.Tick + dur, isOff: true, key: key},
		)
	}

	// earlier first, and release before striking again on the same tick
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].tick != res[j].tick {
			return res[i].tick < res[j].tick
		}
		return res[i].isOff && !res[j].isOff
	})
	return res
}

// Build lays every occurrence out as a note-on/note-off pair on channel 0.
func Build(occurrences []model.NoteOccurrence, opts Options) (*smf.SMF, error) {
	opts = opts.withDefaults()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.Division)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(opts.Tempo))

	evts := events(occurrences)
	var last int
	if opts.Rebase && len(evts) > 0 {
		last = evts[0].tick
	}
	for _, evt := range evts {
		delta := uint32(evt.tick - last)
		if evt.isOff {
			tr.Add(delta, midi.NoteOff(0, evt.key))
		} else {
			tr.Add(delta, midi.NoteOn(0, evt.key, velocity))
		}
		last = evt.tick
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return nil, errors.Wrap(err, "could not add track")
	}
	return s, nil
}

func Write(w io.Writer, occurrences []model.NoteOccurrence, opts Options) error {
	s, err := Build(occurrences, opts)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return errors.Wrap(err, "could not write midi")
}

func WriteFile(path string, occurrences []model.NoteOccurrence, opts Options) error {
	var buf bytes.Buffer
	if err := Write(&buf, occurrences, opts); err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0644), "could not save %v", path)
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	return res, nil
}

type Note struct {
	Tick int
	Key  uint8
}

func (n Note) String() string {
	return fmt.Sprintf("%v@%v", n.Key, n.Tick)
}

// NoteOns lists the struck notes of every track at their absolute tick.
func NoteOns(s *smf.SMF) []Note {
	var res []Note
	for _, events := range s.Tracks {
		var absTicks int
		for _, event := range events {
			absTicks += int(event.Delta)
			var channel, key, vel uint8
			if event.Message.GetNoteOn(&channel, &key, &vel) && vel > 0 {
				res = append(res, Note{Tick: absTicks, Key: key})
			}
		}
	}
	return res
}

func ReadNotes(path string) ([]Note, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return NoteOns(s), nil
}
