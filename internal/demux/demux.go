// Package demux splits the interleaved spy line stream into one ordered
// payload channel per caller thread id, runs a decoder session per thread,
// and assembles the final statistics report once every session has joined.
package demux

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/LudovicRousseau/PCSC-devel/internal/aggregate"
	"github.com/LudovicRousseau/PCSC-devel/internal/decoder"
	"github.com/LudovicRousseau/PCSC-devel/internal/errorutil"
	"github.com/LudovicRousseau/PCSC-devel/internal/timeutil"
	"github.com/LudovicRousseau/PCSC-devel/internal/traceline"
)

// LineSource is the boundary to the trace producer: a blocking line read
// over the spy fifo or a recorded file. End of stream is io.EOF or an
// empty line.
type LineSource interface {
	ReadLine() (string, error)
}

// sessionBuffer sizes each per-thread channel. The producer trace is finite
// and each channel has a single producer and single consumer, so the buffer
// only smooths interleaving; correctness does not depend on its size.
const sessionBuffer = 4096

// Options forwards rendering options to each session's decoder.
type Options struct {
	Diffable bool
}

type session struct {
	ch  chan string
	err error
}

// Demux owns the fan-out loop.
type Demux struct {
	w    io.Writer
	agg  *aggregate.Aggregator
	opts Options
}

func New(w io.Writer, agg *aggregate.Aggregator, opts Options) *Demux {
	return &Demux{w: w, agg: agg, opts: opts}
}

// Run reads the stream to its end, decoding each thread's sub-stream in
// its own session, and returns the final report. Session-fatal decode
// errors are collected and returned together; they do not stop the run.
// Only a malformed opening line aborts with no report.
func (m *Demux) Run(src LineSource) (*aggregate.Report, error) {
	out := &syncWriter{w: m.w}
	sessions := make(map[string]*session)
	var wg sync.WaitGroup
	var order []string

	var firstEnter, lastExit timeutil.Timestamp
	sawFirst := false
	sawExit := false
	lastThread := ""

	for {
		line, err := src.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if line == "" {
			break
		}

		threadID, payload, ok := traceline.Split(line)
		if !ok {
			if !sawFirst {
				return nil, fmt.Errorf("first line %q: %w", line, errorutil.ErrFraming)
			}
			log.Warn().Str("line", line).Msg("line without thread prefix, skipped")
			continue
		}
		rec, isRec := traceline.ParseRecord(payload)
		if !sawFirst {
			if !isRec || rec.Dir != traceline.Enter {
				return nil, fmt.Errorf("first line %q is not an enter record: %w", line, errorutil.ErrFraming)
			}
			firstEnter = rec.Time
			sawFirst = true
		}
		if isRec && rec.Dir == traceline.Exit {
			lastExit = rec.Time
			sawExit = true
		}

		s, ok := sessions[threadID]
		if !ok {
			s = &session{ch: make(chan string, sessionBuffer)}
			sessions[threadID] = s
			opts := decoder.Options{Diffable: m.opts.Diffable, Indent: len(order)}
			order = append(order, threadID)
			d := decoder.New(threadID, s.ch, out, m.agg, opts)
			wg.Add(1)
			go func(s *session) {
				defer wg.Done()
				s.err = d.Run()
			}(s)
		}

		// Scheduling hint only: give the previous thread's session a
		// chance to print before this thread's lines pile up. Decode
		// correctness never depends on it.
		if lastThread != "" && threadID != lastThread {
			runtime.Gosched()
		}
		lastThread = threadID

		s.ch <- payload
	}

	if !sawFirst {
		return nil, fmt.Errorf("empty stream: %w", errorutil.ErrFraming)
	}

	for _, s := range sessions {
		s.ch <- ""
	}
	wg.Wait()

	var merr *multierror.Error
	for _, threadID := range order {
		if err := sessions[threadID].err; err != nil {
			log.Error().Str("thread", threadID).Err(err).Msg("session terminated with a decode error")
			merr = multierror.Append(merr, err)
		}
	}

	var total float64
	if sawExit {
		total = lastExit.Sub(firstEnter)
	}
	return m.agg.Report(total), merr.ErrorOrNil()
}

// syncWriter serializes whole-line writes from concurrent sessions.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
