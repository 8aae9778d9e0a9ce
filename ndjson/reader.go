package ndjson

import (
	"errors"
	"io"

	"github.com/fwojciec/wenyan"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

// maxLoggedLine bounds the display width of a rejected record in the log.
const maxLoggedLine = 256

// Reader yields the events of a stream. Malformed and unknown records are
// logged and skipped so a single bad line never aborts the stream.
type Reader struct {
	dec     *Decoder
	logger  *zap.Logger
	skipped int
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger that receives skipped records.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		r.logger = l
	}
}

// NewReader returns a Reader decoding records from r.
func NewReader(r io.Reader, opts ...Option) *Reader {
	rd := &Reader{
		dec:    NewDecoder(r),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Next returns the next event. It returns io.EOF at the end of the stream
// and passes through errors from the underlying reader.
func (r *Reader) Next() (wenyan.Event, error) {
	for {
		line, err := r.dec.Next()
		if err != nil {
			return nil, err
		}
		evt, err := Parse(line)
		if err == nil {
			return evt, nil
		}
		r.skipped++
		reason := "malformed record"
		if errors.Is(err, wenyan.ErrUnknownEvent) {
			reason = "unknown event type"
		}
		r.logger.Warn(reason,
			zap.Error(err),
			zap.String("line", runewidth.Truncate(line, maxLoggedLine, "…")),
		)
	}
}

// Skipped returns how many records have been dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}
