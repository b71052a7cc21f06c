package logging

import (
	"io"

	"go.uber.org/multierr"
)

// FanoutWriter writes every message to all sinks. A failing sink does not
// stop the others; its error is combined into the returned one.
type FanoutWriter struct {
	sinks []io.Writer
}

func NewFanoutWriter(sinks ...io.Writer) *FanoutWriter {
	return &FanoutWriter{sinks: sinks}
}

// Write reports len(p) if at least one sink took the whole message.
func (fw *FanoutWriter) Write(p []byte) (int, error) {
	var errs error
	delivered := false
	for _, sink := range fw.sinks {
		n, err := sink.Write(p)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if n == len(p) {
			delivered = true
		}
	}
	if delivered {
		return len(p), errs
	}
	return 0, errs
}
