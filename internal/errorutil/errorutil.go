package errorutil

import "errors"

// ErrFraming means the stream did not open with a valid enter record; the
// whole run aborts before any session starts.
var ErrFraming = errors.New("stream framing error")

// ErrEndOfSession is returned by a channel read that observed the
// end-of-stream sentinel. It is clean termination between calls and a fatal
// decode error mid-call.
var ErrEndOfSession = errors.New("end of session")

// ErrUnknownFunction marks an enter record naming a function outside the
// fixed call set. The call is discarded and the session resynchronizes on
// the next enter record.
var ErrUnknownFunction = errors.New("unknown function")
