package demux

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/LudovicRousseau/PCSC-devel/internal/aggregate"
	"github.com/LudovicRousseau/PCSC-devel/internal/errorutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type sliceSource struct {
	lines []string
	pos   int
}

func (s *sliceSource) ReadLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

// isValidContext emits one complete SCardIsValidContext call for a thread.
func isValidContext(thread string, sec int) []string {
	s := strconv.Itoa(sec)
	return []string{
		thread + "@>|" + s + "|0|SCardIsValidContext",
		thread + "@0x7ffc1234",
		thread + "@<|" + s + "|500|0x0",
	}
}

func TestTwoInterleavedThreads(t *testing.T) {
	var lines []string
	for i := 0; i < 3; i++ {
		a := isValidContext("0xaaa", 2*i+1)
		b := isValidContext("0xbbb", 2*i+2)
		// Interleave line by line to exercise routing.
		for j := range a {
			lines = append(lines, a[j], b[j])
		}
	}

	var buf bytes.Buffer
	agg := aggregate.New()
	report, err := New(&buf, agg, Options{}).Run(&sliceSource{lines: lines})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Threads) != 2 {
		t.Fatalf("expected two thread sections, got %d", len(report.Threads))
	}
	for _, ts := range report.Threads {
		total := 0
		for _, st := range ts.Stats {
			total += st.Occurrences
		}
		if total != 3 {
			t.Fatalf("thread %s: expected 3 completed calls, got %d", ts.ThreadID, total)
		}
	}
	// Wall clock spans first enter (sec 1) to last exit (sec 6, usec 500).
	if want := 5 + float64(500)/1e6; report.TotalElapsed != want {
		t.Fatalf("total elapsed: got %v, want %v", report.TotalElapsed, want)
	}
}

func TestFirstLineMustBeEnter(t *testing.T) {
	src := &sliceSource{lines: []string{"0xaaa@0x7ffc1234"}}
	report, err := New(io.Discard, aggregate.New(), Options{}).Run(src)
	if !errors.Is(err, errorutil.ErrFraming) {
		t.Fatalf("expected ErrFraming, got %v", err)
	}
	if report != nil {
		t.Fatal("a framing error must abort with no report")
	}
}

func TestEmptyStreamIsFramingError(t *testing.T) {
	_, err := New(io.Discard, aggregate.New(), Options{}).Run(&sliceSource{})
	if !errors.Is(err, errorutil.ErrFraming) {
		t.Fatalf("expected ErrFraming, got %v", err)
	}
}

func TestEmptyLineEndsStream(t *testing.T) {
	lines := append(isValidContext("0xaaa", 1), "", "0xaaa@never read")
	report, err := New(io.Discard, aggregate.New(), Options{}).Run(&sliceSource{lines: lines})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Threads) != 1 || report.Threads[0].Stats[0].Occurrences != 1 {
		t.Fatalf("report: %+v", report.Threads)
	}
}

func TestSessionErrorDoesNotAbortOthers(t *testing.T) {
	lines := []string{
		// Thread A completes a call; thread B hits an unmapped return code.
		"0xaaa@>|1|0|SCardIsValidContext",
		"0xbbb@>|1|0|SCardIsValidContext",
		"0xaaa@0x7ffc1234",
		"0xbbb@0x7ffc1234",
		"0xaaa@<|1|500|0x0",
		"0xbbb@<|1|500|0x12345678",
	}
	var buf bytes.Buffer
	report, err := New(&buf, aggregate.New(), Options{}).Run(&sliceSource{lines: lines})
	if err == nil {
		t.Fatal("expected the bad session's error to be reported")
	}
	if report == nil {
		t.Fatal("other sessions must still produce a report")
	}
	if len(report.Threads) != 1 || report.Threads[0].ThreadID != "0xaaa" {
		t.Fatalf("report: %+v", report.Threads)
	}
	if !strings.Contains(buf.String(), "SCardIsValidContext") {
		t.Fatalf("missing decode output:\n%s", buf.String())
	}
}

func TestDeadSessionDoesNotBlockRun(t *testing.T) {
	// One session dies on an unmapped return code, then its thread keeps
	// producing more lines than the channel buffer holds. The run must
	// still finish and the healthy session must still report.
	lines := []string{
		"0xaaa@>|1|0|SCardIsValidContext",
		"0xbbb@>|1|0|SCardIsValidContext",
		"0xbbb@0x7ffc1234",
		"0xbbb@<|1|10|0x12345678",
	}
	for i := 0; i < sessionBuffer+10; i++ {
		lines = append(lines, "0xbbb@stray")
	}
	lines = append(lines,
		"0xaaa@0x7ffc1234",
		"0xaaa@<|1|500|0x0",
	)

	type result struct {
		report *aggregate.Report
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := New(io.Discard, aggregate.New(), Options{}).Run(&sliceSource{lines: lines})
		done <- result{report, err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			t.Fatal("expected the dead session's error to be reported")
		}
		if len(res.report.Threads) != 1 || res.report.Threads[0].ThreadID != "0xaaa" {
			t.Fatalf("report: %+v", res.report.Threads)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish with a failed session still receiving lines")
	}
}

func TestLineWithoutPrefixSkipped(t *testing.T) {
	lines := append(isValidContext("0xaaa", 1)[:1],
		"no prefix here",
		isValidContext("0xaaa", 1)[1],
		isValidContext("0xaaa", 1)[2],
	)
	report, err := New(io.Discard, aggregate.New(), Options{}).Run(&sliceSource{lines: lines})
	if err != nil {
		t.Fatal(err)
	}
	if report.Threads[0].Stats[0].Occurrences != 1 {
		t.Fatalf("report: %+v", report.Threads)
	}
}
