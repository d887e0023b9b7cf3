// Package spellserver wires together the dictionary, the two bounded
// hand-off queues, the fixed worker pool, the log writer, and the acceptor
// into the running spell-check TCP service. It is the orchestration layer:
// Acceptor -> connection queue -> Worker -> (response, log record) -> log
// queue -> Log Writer -> log file, with the dictionary a shared read-only
// collaborator of every worker.
package spellserver

import (
	"context"
	"fmt"
	"net"
	"os"

	"golang.org/x/sync/errgroup"

	"spellcheckd/internal/config"
	"spellcheckd/internal/dictionary"
	"spellcheckd/internal/metrics"
	"spellcheckd/internal/netconn"
	"spellcheckd/internal/queue"

	"github.com/sirupsen/logrus"
)

// logQueueCapacity is fixed per the spec: logging is nearly always faster
// than classification, so the log queue can be much deeper than the
// connection queue without ever needing to be the bottleneck.
const logQueueCapacity = 4096

// Server owns every long-lived collaborator of the running service. It is
// constructed once per process with explicit dependencies — no package
// globals — so tests can swap in a short-lived dictionary or a temp log
// path.
type Server struct {
	cfg     *config.Config
	dict    *dictionary.Dictionary
	log     *logrus.Logger
	metrics *metrics.Metrics

	logFilePath string

	connQueue *queue.Queue[*netconn.Conn]
	logQueue  *queue.Queue[string]

	listener *netconn.Listener
	cancel   context.CancelFunc
	ready    chan struct{}
}

// New constructs a Server. The connection queue's capacity is fixed to the
// worker count: the acceptor can never buffer more pending connections than
// there are workers to drain them.
func New(cfg *config.Config, dict *dictionary.Dictionary, log *logrus.Logger, m *metrics.Metrics, logFilePath string) *Server {
	s := &Server{
		cfg:         cfg,
		dict:        dict,
		log:         log,
		metrics:     m,
		logFilePath: logFilePath,
		connQueue:   queue.New[*netconn.Conn](cfg.Workers),
		logQueue:    queue.New[string](logQueueCapacity),
		ready:       make(chan struct{}),
	}

	m.RegisterQueueDepth("spellcheckd_connection_queue_depth", "Pending connections waiting for a worker.", func() float64 {
		return float64(s.connQueue.Len())
	})
	m.RegisterQueueDepth("spellcheckd_log_queue_depth", "Pending log records waiting to be written.", func() float64 {
		return float64(s.logQueue.Len())
	})

	return s
}

// Run opens the log file and the listener, starts the fixed worker pool and
// the log writer, and then runs the acceptor loop until ctx is cancelled or
// a startup failure occurs. Startup failures (log file open, listener bind)
// are fatal and returned directly. Cancelling ctx stops the acceptor, but
// Run returns only once every worker and the log writer have returned too;
// each re-checks ctx only between Pop calls, so one blocked in Pop on an
// empty queue keeps Run from returning.
func (s *Server) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	logFile, err := os.Create(s.logFilePath)
	if err != nil {
		close(s.ready)
		return fmt.Errorf("open log file %q: %w", s.logFilePath, err)
	}
	defer logFile.Close()

	listener, err := netconn.Listen(s.cfg.Port)
	if err != nil {
		close(s.ready)
		return err
	}
	s.listener = listener
	close(s.ready)
	defer listener.Close()

	port := s.cfg.Port
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	s.log.WithFields(logrus.Fields{
		"port":       port,
		"workers":    s.cfg.Workers,
		"dictionary": s.cfg.DictionaryPath,
	}).Info("spellcheckd listening")

	// Closing the listener on cancellation unblocks Accept; blocked workers
	// and the log writer are not force-woken, matching the spec's note that
	// this design has no graceful-shutdown contract.
	go func() {
		<-runCtx.Done()
		_ = listener.Close()
	}()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return s.runLogWriter(gctx, logFile)
	})

	for i := 0; i < s.cfg.Workers; i++ {
		workerID := i
		g.Go(func() error {
			return s.runWorker(gctx, workerID)
		})
	}

	g.Go(func() error {
		return s.runAcceptor(gctx)
	})

	return g.Wait()
}

// Shutdown cancels the running server's context, which closes the listener
// and stops the acceptor. Workers and the log writer blocked on their
// queues are not forcibly unblocked, per spec §5 ("the design has no
// graceful shutdown").
func (s *Server) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Metrics returns the server's metrics collector, for mounting an admin
// HTTP endpoint.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Addr blocks until the listener is bound (or listen failed) and returns its
// address, or nil if the listener never came up. Intended for tests that
// need the ephemeral port chosen when Config.Port is 0.
func (s *Server) Addr() net.Addr {
	<-s.ready
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) runAcceptor(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				s.log.WithError(err).Warn("accept failed")
				continue
			}
		}

		s.metrics.ConnectionsTotal.Inc()
		s.log.WithField("remote", conn.RemoteAddr()).Debug("accepted connection")
		s.connQueue.Push(conn)
	}
}
