package spellserver

import (
	"bufio"
	"context"
	"os"
)

// runLogWriter is the single long-lived task that owns the log file. It
// dequeues one record at a time and flushes it before popping the next: no
// batching, and a record is durable before the writer can fall behind.
func (s *Server) runLogWriter(ctx context.Context, f *os.File) error {
	w := bufio.NewWriter(f)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		record := s.logQueue.Pop()

		if _, err := w.WriteString(record); err != nil {
			s.log.WithError(err).Warn("log write failed")
			continue
		}
		if err := w.WriteByte('\n'); err != nil {
			s.log.WithError(err).Warn("log write failed")
			continue
		}
		if err := w.Flush(); err != nil {
			s.log.WithError(err).Warn("log flush failed")
		}
	}
}
