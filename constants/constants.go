package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./txts"
}

func GetMidiDir() string {
	path := os.Getenv("MIDI_OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./midis"
}

func GetAddr() string {
	addr := os.Getenv("PITCHNAMER_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// ticks per quarter note when a score does not say
const DefaultDivision = 480

const DefaultTempo = 120

// TPC of natural C in the numbering used by the pitch package
const TpcC = 25

// MuseScore files number natural C as 14
const MuseScoreTpcOffset = TpcC - 14

// first and last entries of the spelled-name table (Fbb, B##)
const TpcMin = TpcC - 15
const TpcMax = TpcC + 19
