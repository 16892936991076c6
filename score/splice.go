package score

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// chordOffsets returns the byte offset of every <Chord> start tag in raw, in
// document order.
func chordOffsets(raw []byte) ([]int64, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var res []int64
	for {
		// after character data the decoder stops on the '<' of the next tag
		pos := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not scan score")
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "Chord" {
			res = append(res, pos)
		}
	}
}

// indentAt returns the blanks between the start of the line and pos, or nil
// when the tag does not start its own line.
func indentAt(raw []byte, pos int64) []byte {
	i := pos
	for i > 0 && (raw[i-1] == ' ' || raw[i-1] == '\t') {
		i--
	}
	if i > 0 && raw[i-1] != '\n' {
		return nil
	}
	return raw[i:pos]
}

func writeStaffText(buf *bytes.Buffer, name string, indent []byte) {
	var escaped bytes.Buffer
	xml.EscapeText(&escaped, []byte(name))

	if indent == nil {
		buf.WriteString("<StaffText><placement>above</placement><text>")
		buf.Write(escaped.Bytes())
		buf.WriteString("</text></StaffText>")
		return
	}
	inner := append(append([]byte{}, indent...), "  "...)
	buf.WriteString("<StaffText>\n")
	buf.Write(inner)
	buf.WriteString("<placement>above</placement>\n")
	buf.Write(inner)
	buf.WriteString("<text>")
	buf.Write(escaped.Bytes())
	buf.WriteString("</text>\n")
	buf.Write(indent)
	buf.WriteString("</StaffText>\n")
	buf.Write(indent)
}

// splice inserts a StaffText in front of each chord named in labels, keyed by
// the chord's position among all Chord elements.
func splice(raw []byte, labels map[int]string) ([]byte, error) {
	if len(labels) == 0 {
		return raw, nil
	}
	offsets, err := chordOffsets(raw)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(raw) + len(labels)*96)
	var last int64
	for ord, pos := range offsets {
		name, ok := labels[ord]
		if !ok {
			continue
		}
		buf.Write(raw[last:pos])
		writeStaffText(&buf, name, indentAt(raw, pos))
		last = pos
	}
	buf.Write(raw[last:])
	return buf.Bytes(), nil
}
