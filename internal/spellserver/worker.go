package spellserver

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"spellcheckd/internal/netconn"
	"spellcheckd/internal/wire"
)

// runWorker is the long-lived loop of one worker: dequeue one connection,
// serve it to disconnect, then dequeue another. A worker holds at most one
// connection at a time and shares the dictionary read-only with every other
// worker.
func (s *Server) runWorker(ctx context.Context, id int) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		conn := s.connQueue.Pop()
		s.metrics.WorkersBusy.Inc()
		s.serveConnection(conn, id)
		s.metrics.WorkersBusy.Dec()
	}
}

// serveConnection reads lines from conn until the peer disconnects or a
// read error occurs, classifying each non-empty line against the
// dictionary and replying with the verdict. Errors from Write are ignored;
// the loop continues on the same connection (subsequent reads will usually
// then fail, which moves the connection to Closed).
func (s *Server) serveConnection(conn *netconn.Conn, workerID int) {
	connID := uuid.NewString()
	entry := s.log.WithFields(logrus.Fields{
		"worker": workerID,
		"conn":   connID,
		"remote": conn.RemoteAddr(),
	})
	entry.Debug("worker serving connection")

	defer func() {
		_ = conn.Close()
		entry.Debug("connection closed")
	}()

	for {
		line, ok, err := conn.ReadLine()
		if err != nil {
			entry.WithError(err).Warn("read failed")
			return
		}
		if !ok {
			return // Disconnected
		}
		if line == "" {
			continue // empty line: no action, keep reading
		}

		verdict := wire.Classify(s.dict.Contains(line))
		s.metrics.WordsChecked.Inc()
		if verdict == wire.Misspelled {
			s.metrics.MisspelledTotal.Inc()
		}

		// Response and log record are independent allocations: the log
		// writer's lifetime must never be coupled to the response path.
		if writeErr := conn.Write([]byte(wire.ResponseLine(line, verdict))); writeErr != nil {
			entry.WithError(writeErr).Warn("write failed, continuing")
			s.metrics.ErrorsTotal.Inc()
		}

		// Pushed unconditionally once classification completes, regardless
		// of whether the socket write above succeeded.
		s.logQueue.Push(wire.LogRecord(line, verdict))
	}
}
