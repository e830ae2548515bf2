// Package traceline parses the raw lines written by the libpcsclite spy
// layer. Every line carries a thread-id prefix used for routing; enter and
// exit records additionally carry a direction marker, a timestamp and a
// tail field, while interior lines are bare field payloads whose meaning
// depends on decoder state.
package traceline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LudovicRousseau/PCSC-devel/internal/timeutil"
)

// Direction tags an enter or exit record.
type Direction byte

const (
	Enter Direction = '>'
	Exit  Direction = '<'
)

// Sep separates the direction, timestamp and tail fields of a record.
const Sep = "|"

// Record is a parsed enter or exit line. Tail holds the function name on
// enter records and the hex return code on exit records.
type Record struct {
	Dir  Direction
	Time timeutil.Timestamp
	Tail string
}

// Split separates the thread-id prefix from the payload. Lines without the
// prefix cannot be routed and are reported as garbage by the caller.
func Split(line string) (threadID, payload string, ok bool) {
	threadID, payload, ok = strings.Cut(line, "@")
	if !ok || threadID == "" {
		return "", "", false
	}
	return threadID, payload, true
}

// ParseRecord parses an enter/exit payload of the form
// <dir>|<sec>|<usec>|<tail>. Any payload not in that shape is a bare field
// line, reported by ok == false.
func ParseRecord(payload string) (Record, bool) {
	parts := strings.SplitN(payload, Sep, 4)
	if len(parts) != 4 || len(parts[0]) != 1 {
		return Record{}, false
	}
	dir := Direction(parts[0][0])
	if dir != Enter && dir != Exit {
		return Record{}, false
	}
	ts, err := timeutil.Parse(parts[1], parts[2])
	if err != nil {
		return Record{}, false
	}
	return Record{Dir: dir, Time: ts, Tail: parts[3]}, true
}

// ParseValue parses a numeric field payload. The spy logs numbers as 0x
// hex; bare decimal is accepted for counts.
func ParseValue(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if rest, found := strings.CutPrefix(s, "0x"); found {
		v, err := strconv.ParseUint(rest, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex field %q: %w", s, err)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric field %q: %w", s, err)
	}
	return uint32(v), nil
}

// ParseHex parses a space-separated hex byte dump as logged for buffers.
func ParseHex(s string) ([]byte, error) {
	fields := strings.Fields(s)
	buf := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte %q: %w", f, err)
		}
		buf = append(buf, byte(b))
	}
	return buf, nil
}
