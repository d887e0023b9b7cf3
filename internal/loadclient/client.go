// Package loadclient implements a TCP client for the spell-check wire
// protocol, used by the load-test driver (cmd/loadtest) and exercised
// directly in tests against a real spellserver.Server. It plays the same
// role the original package-indexer test harness's TCPPackageIndexerClient
// played: a small client, using only the standard library and logrus, good enough to drive concurrent
// load against the real server over a real socket.
package loadclient

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Verdict mirrors the two suffixes the server ever appends to a response
// line, plus Unknown for anything else (a protocol violation worth failing
// a load run over, not silently swallowing).
type Verdict string

const (
	OK          Verdict = "OK"
	Misspelled  Verdict = "MISSPELLED"
	Unknown     Verdict = "UNKNOWN"
	dialTimeout         = 10 * time.Second
)

// Client checks words against a running spellcheckd instance.
type Client interface {
	Name() string
	Close() error
	Check(word string) (Verdict, error)
}

// TCPClient implements Client over a real TCP connection.
type TCPClient struct {
	name string
	conn net.Conn
	r    *bufio.Reader
	log  *logrus.Logger
}

// Dial connects to host:port and returns a named client. name is purely for
// logging when running many concurrent clients in a load test.
func Dial(name, host string, port int, log *logrus.Logger) (*TCPClient, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	log.WithFields(logrus.Fields{"client": name, "addr": addr}).Debug("connecting")

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: dial %s: %w", name, addr, err)
	}
	return &TCPClient{name: name, conn: conn, r: bufio.NewReader(conn), log: log}, nil
}

func (c *TCPClient) Name() string { return c.name }

// Close disconnects. Matches the original harness's habit of logging every
// disconnect, useful when a load run leaves clients stuck mid-read.
func (c *TCPClient) Close() error {
	c.log.WithField("client", c.name).Debug("disconnecting")
	return c.conn.Close()
}

// Check sends word as a line and parses the server's "<word> OK" or
// "<word> MISSPELLED" response. A response that doesn't end in a known
// suffix is reported as Unknown alongside an error, rather than silently
// coerced into one of the two known verdicts.
func (c *TCPClient) Check(word string) (Verdict, error) {
	c.conn.SetDeadline(time.Now().Add(dialTimeout))

	if _, err := fmt.Fprintf(c.conn, "%s\n", word); err != nil {
		return Unknown, fmt.Errorf("%s: send %q: %w", c.name, word, err)
	}

	c.conn.SetDeadline(time.Now().Add(dialTimeout))
	line, err := c.r.ReadString('\n')
	if err != nil {
		return Unknown, fmt.Errorf("%s: read response for %q: %w", c.name, word, err)
	}
	line = strings.TrimRight(line, "\n")

	switch {
	case strings.HasSuffix(line, " "+string(OK)):
		return OK, nil
	case strings.HasSuffix(line, " "+string(Misspelled)):
		return Misspelled, nil
	default:
		return Unknown, fmt.Errorf("%s: unparseable response %q", c.name, line)
	}
}
