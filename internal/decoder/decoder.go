// Package decoder turns the ordered payload sub-stream of one caller thread
// into decoded text and CallRecords. Each logical call is an enter record,
// a fixed sequence of typed field payloads, and an exit record carrying the
// return code.
package decoder

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/LudovicRousseau/PCSC-devel/internal/errorutil"
	"github.com/LudovicRousseau/PCSC-devel/internal/scard"
	"github.com/LudovicRousseau/PCSC-devel/internal/timeutil"
	"github.com/LudovicRousseau/PCSC-devel/internal/traceline"
)

// maxConsecutiveGarbage bounds how many unparseable lines a session
// tolerates while waiting for an enter record before giving up on the
// stream. Without a bound a corrupted source would spin forever.
const maxConsecutiveGarbage = 100

// Field is one decoded call argument or result.
type Field struct {
	Label string
	Raw   string
	Text  string
}

// CallRecord is the decoded result of one completed call.
type CallRecord struct {
	Function     string
	ThreadID     string
	Start        timeutil.Timestamp
	End          timeutil.Timestamp
	Elapsed      float64
	Fields       []Field
	ReturnCode   uint32
	ReturnSymbol string
}

// Recorder receives completed CallRecords. Implementations must tolerate
// concurrent calls from several sessions.
type Recorder interface {
	Record(threadID string, rec CallRecord)
}

// Options controls rendering.
type Options struct {
	// Diffable suppresses volatile handle values so two runs over
	// equivalent traces compare clean.
	Diffable bool
	// Indent is the session's creation order, used to offset its output
	// from other interleaved sessions.
	Indent int
}

// Decoder decodes the payload sub-stream of a single thread id.
type Decoder struct {
	threadID string
	in       <-chan string
	w        io.Writer
	rec      Recorder
	opts     Options
	prefix   string

	// learned extends scard.ControlCodes with the control codes
	// discovered from this session's feature enumeration responses.
	learned map[uint32]string
}

var errHighlight = color.New(color.FgRed)

// New builds a Decoder consuming payloads from in and writing decoded text
// to w. The channel must be fed by exactly one producer; an empty payload
// (or channel close) is the end-of-stream sentinel.
func New(threadID string, in <-chan string, w io.Writer, rec Recorder, opts Options) *Decoder {
	return &Decoder{
		threadID: threadID,
		in:       in,
		w:        w,
		rec:      rec,
		opts:     opts,
		prefix:   strings.Repeat("    ", opts.Indent),
		learned:  make(map[uint32]string),
	}
}

// Run decodes calls until the end-of-stream sentinel arrives between calls.
// The returned error is nil on clean termination and the session-fatal
// decode error otherwise; other sessions are unaffected either way. A
// failed session keeps draining its channel until the sentinel so the
// demultiplexer can never block forwarding to it.
func (d *Decoder) Run() error {
	err := d.run()
	if err != nil && !errors.Is(err, errorutil.ErrEndOfSession) {
		// A mid-call sentinel already ended the stream; anything else
		// leaves the producer still forwarding this thread's lines.
		d.drain()
	}
	return err
}

func (d *Decoder) run() error {
	garbage := 0
	for {
		payload, err := d.payload()
		if err != nil {
			// Sentinel while idle between calls: clean exit.
			return nil
		}
		hdr, ok := traceline.ParseRecord(payload)
		if !ok || hdr.Dir != traceline.Enter {
			garbage++
			log.Warn().Str("thread", d.threadID).Str("line", payload).Msg("garbage line while expecting an enter record")
			if garbage >= maxConsecutiveGarbage {
				return fmt.Errorf("thread %s: %d consecutive garbage lines, stream unrecoverable", d.threadID, garbage)
			}
			continue
		}
		garbage = 0
		if err := d.decodeCall(hdr); err != nil {
			if errors.Is(err, errorutil.ErrUnknownFunction) {
				continue
			}
			return err
		}
	}
}

// drain discards payloads until the end-of-stream sentinel. The producer
// keeps forwarding this thread's lines after a fatal decode error; they
// must be consumed or its send would block once the channel fills.
func (d *Decoder) drain() {
	for {
		s, ok := <-d.in
		if !ok || s == "" {
			return
		}
	}
}

// payload pulls the next field payload, reporting ErrEndOfSession on the
// sentinel.
func (d *Decoder) payload() (string, error) {
	s, ok := <-d.in
	if !ok || s == "" {
		return "", errorutil.ErrEndOfSession
	}
	return s, nil
}

func (d *Decoder) emitf(format string, args ...interface{}) {
	fmt.Fprintf(d.w, d.prefix+format+"\n", args...)
}

func (d *Decoder) decodeCall(hdr traceline.Record) error {
	name := hdr.Tail
	fn, ok := calls[name]
	if !ok {
		d.emitf("%s: unknown function", name)
		log.Warn().Str("thread", d.threadID).Str("function", name).Msg("unknown function, resynchronizing on next enter record")
		return fmt.Errorf("%q: %w", name, errorutil.ErrUnknownFunction)
	}

	d.emitf("%s [%s]", name, d.threadID)
	c := &call{d: d, name: name, hdr: hdr}
	if err := fn(c); err != nil {
		return fmt.Errorf("thread %s: %s: %w", d.threadID, name, err)
	}

	payload, err := d.payload()
	if err != nil {
		return fmt.Errorf("thread %s: %s: end of stream mid-call: %w", d.threadID, name, err)
	}
	exit, ok := traceline.ParseRecord(payload)
	if !ok || exit.Dir != traceline.Exit {
		return fmt.Errorf("thread %s: %s: expected exit record, got %q", d.threadID, name, payload)
	}
	rv, err := traceline.ParseValue(exit.Tail)
	if err != nil {
		return fmt.Errorf("thread %s: %s: bad return code: %w", d.threadID, name, err)
	}
	sym, ok := scard.ReturnCodes[rv]
	if !ok {
		// The return code table is exhaustive by protocol contract.
		return fmt.Errorf("thread %s: %s: return code %s not in protocol table", d.threadID, name, scard.Hex(rv))
	}

	elapsed := exit.Time.Sub(hdr.Time)
	rvText := fmt.Sprintf("%s (%s)", sym, scard.Hex(rv))
	if rv != scard.ReturnSuccess {
		rvText = errHighlight.Sprint(rvText)
	}
	d.emitf(" => %s [%s s]", rvText, strconv.FormatFloat(elapsed, 'f', 6, 64))

	rec := CallRecord{
		Function:     name,
		ThreadID:     d.threadID,
		Start:        hdr.Time,
		End:          exit.Time,
		Elapsed:      elapsed,
		Fields:       c.fields,
		ReturnCode:   rv,
		ReturnSymbol: sym,
	}
	if c.post != nil {
		c.post(rv == scard.ReturnSuccess)
	}
	if d.rec != nil {
		d.rec.Record(d.threadID, rec)
	}
	return nil
}
