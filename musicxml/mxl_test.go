package musicxml

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/pitchnamer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partwise = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list><score-part id="P1"><part-name>Piano</part-name></score-part></part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>2</divisions><time><beats>4</beats><beat-type>4</beat-type></time></attributes>
      <note><pitch><step>C</step><octave>4</octave></pitch><duration>4</duration><voice>1</voice></note>
      <note><chord/><pitch><step>E</step><octave>4</octave></pitch><duration>4</duration><voice>1</voice></note>
      <note><pitch><step>F</step><alter>1</alter><octave>4</octave></pitch><duration>4</duration><voice>1</voice></note>
      <backup><duration>8</duration></backup>
      <note><pitch><step>B</step><alter>-1</alter><octave>3</octave></pitch><duration>8</duration><voice>2</voice></note>
    </measure>
    <measure number="2">
      <note><rest/><duration>8</duration><voice>1</voice></note>
    </measure>
    <measure number="3">
      <direction><direction-type><words>dolce</words></direction-type></direction>
      <note><grace/><pitch><step>C</step><alter>1</alter><octave>5</octave></pitch><voice>1</voice></note>
      <note><pitch><step>D</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice></note>
      <forward><duration>6</duration></forward>
    </measure>
  </part>
</score-partwise>
`

func TestCollectNamesTicksAndTracks(t *testing.T) {
	doc, err := Parse(strings.NewReader(partwise))
	require.NoError(t, err)

	s := doc.Collect(Options{})
	assert := assert.New(t)
	assert.Equal(480, s.Division())
	assert.Equal([]model.NoteOccurrence{
		{TPC: 25, Pitch: 60, Measure: 1, Tick: 0, Offset: 0, Duration: 960, Track: 0},
		{TPC: 29, Pitch: 64, Measure: 1, Tick: 0, Offset: 0, Duration: 960, Track: 0},
		{TPC: 31, Pitch: 66, Measure: 1, Tick: 960, Offset: 960, Duration: 960, Track: 0},
		{TPC: 23, Pitch: 58, Measure: 1, Tick: 0, Offset: 0, Duration: 1920, Track: 1},
		{TPC: 27, Pitch: 74, Measure: 3, Tick: 3840, Offset: 0, Duration: 480, Track: 0},
	}, s.Occurrences())
}

func TestCollectMeasureRange(t *testing.T) {
	doc, err := Parse(strings.NewReader(partwise))
	require.NoError(t, err)

	occ := doc.Collect(Options{From: 2}).Occurrences()
	require.Len(t, occ, 1)
	assert.Equal(t, 3840, occ[0].Tick)
}

func TestPickupMeasureKeepsNumberZero(t *testing.T) {
	pickup := `<score-partwise><part id="P1">
<measure number="0"><attributes><divisions>1</divisions></attributes>
<note><pitch><step>G</step><octave>4</octave></pitch><duration>1</duration></note></measure>
<measure number="1"><note><pitch><step>C</step><octave>5</octave></pitch><duration>4</duration></note></measure>
<measure number="X1"><note><pitch><step>D</step><octave>5</octave></pitch><duration>4</duration></note></measure>
</part></score-partwise>`

	doc, err := Parse(strings.NewReader(pickup))
	require.NoError(t, err)

	var measures, ticks []int
	for _, o := range doc.Collect(Options{}).Occurrences() {
		measures = append(measures, o.Measure)
		ticks = append(ticks, o.Tick)
	}
	assert.Equal(t, []int{0, 1, 3}, measures)
	assert.Equal(t, []int{0, 480, 2400}, ticks)
}

func TestPitchSpelling(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(25, Pitch{Step: "C", Octave: 4}.TPC())
	assert.Equal(18, Pitch{Step: "C", Alter: -1, Octave: 4}.TPC())
	assert.Equal(39, Pitch{Step: "C", Alter: 2, Octave: 4}.TPC())
	assert.Equal(59, Pitch{Step: "C", Alter: -1, Octave: 4}.Key())
	assert.Equal(69, Pitch{Step: "A", Octave: 4}.Key())
}

func TestParseHonorsDeclaredEncoding(t *testing.T) {
	latin1 := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<score-partwise><work><work-title>Caf\xe9</work-title></work>" +
		"<part id=\"P1\"><measure number=\"1\"><attributes><divisions>1</divisions></attributes>" +
		"<note><pitch><step>G</step><octave>4</octave></pitch><duration>1</duration></note>" +
		"</measure></part></score-partwise>"

	doc, err := Parse(strings.NewReader(latin1))
	require.NoError(t, err)
	occ := doc.Collect(Options{}).Occurrences()
	require.Len(t, occ, 1)
	assert.Equal(t, 26, occ[0].TPC)
}

func TestParseRejectsTimewise(t *testing.T) {
	_, err := Parse(strings.NewReader(`<score-timewise><measure number="1"/></score-timewise>`))
	assert.Error(t, err)
}

func makeArchive(t *testing.T, members [][2]string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, m := range members {
		f, err := w.Create(m[0])
		require.NoError(t, err)
		_, err = f.Write([]byte(m[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestParseArchiveFollowsContainer(t *testing.T) {
	containerXML := `<?xml version="1.0" encoding="UTF-8"?>
<container><rootfiles><rootfile full-path="score/song.musicxml"/></rootfiles></container>`
	data := makeArchive(t, [][2]string{
		{"META-INF/container.xml", containerXML},
		{"other.xml", `<score-partwise/>`},
		{"score/song.musicxml", partwise},
	})

	doc, err := ParseArchive(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, doc.Collect(Options{}).Occurrences(), 5)
}

func TestOpenCompressedWithoutContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mxl")
	data := makeArchive(t, [][2]string{{"song.musicxml", partwise}})
	require.NoError(t, os.WriteFile(path, data, 0644))

	doc, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, doc.Parts, 1)
}
