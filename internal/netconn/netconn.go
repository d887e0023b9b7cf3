// Package netconn wraps a TCP listener and accepted connections behind a
// small synchronous interface: open a listener, accept one connection, read
// one line, write bytes, close. It exists so the spell server's core loops
// depend on an interface narrow enough to fake in tests, and so the
// line-reading contract — including the "partial final line on disconnect"
// rule — lives in exactly one place.
package netconn

import (
	"errors"
	"fmt"
	"io"
	"net"
)

// Listener accepts incoming TCP connections on a bound, listening socket.
type Listener struct {
	ln net.Listener
}

// Listen binds to port on all interfaces and starts listening. The Go
// runtime enables address reuse on Unix. The backlog is not set here: it is
// the operating system's maximum (net.core.somaxconn on Linux), not a small
// fixed value.
func Listen(port int) (*Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	return &Listener{ln: ln}, nil
}

// Accept blocks until a client connects and returns an owned Conn.
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return &Conn{c: c}, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close releases the listening socket. Any Accept blocked in the OS will
// return an error once this completes.
func (l *Listener) Close() error {
	return l.ln.Close()
}

const initialLineBufSize = 256

// Conn is an owned handle to one accepted (or dialed) connection.
type Conn struct {
	c net.Conn
}

// Dial connects to addr, for use by test clients and the integration test
// suite; the spell server itself only ever owns Conns produced by Accept.
func Dial(addr string) (*Conn, error) {
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Conn{c: c}, nil
}

// ReadLine reads bytes one at a time until LF, growing a buffer that starts
// at 256 bytes and doubles on fill, exactly as the source implementation
// does. It returns the line's bytes with the terminating LF stripped.
//
// If the peer closes having sent some bytes since the last line but no
// trailing LF, those bytes are returned as a final line with ok == true. If
// the peer closes having sent nothing since the last line, ReadLine returns
// ok == false and a nil error: this is the Disconnected case, distinguished
// from a genuine socket error. Any read error other than io.EOF is returned
// as err, and bytes read since the last line are then discarded.
func (c *Conn) ReadLine() (line string, ok bool, err error) {
	buf := make([]byte, 0, initialLineBufSize)
	one := make([]byte, 1)

	for {
		n, readErr := c.c.Read(one)
		if n == 0 {
			if readErr != nil {
				if !errors.Is(readErr, io.EOF) {
					return "", false, readErr
				}
				if len(buf) > 0 {
					return string(buf), true, nil
				}
				return "", false, nil
			}
			continue
		}

		b := one[0]
		if b == '\n' {
			return string(buf), true, nil
		}
		buf = append(buf, b)
	}
}

// Write writes all of b to the connection.
func (c *Conn) Write(b []byte) error {
	_, err := c.c.Write(b)
	return err
}

// RemoteAddr returns the remote endpoint's address as a string, for logging.
func (c *Conn) RemoteAddr() string {
	return c.c.RemoteAddr().String()
}

// Close releases the connection.
func (c *Conn) Close() error {
	return c.c.Close()
}

// CloseWrite half-closes the write side of the connection, if the
// underlying transport supports it (TCP does). This lets a test client
// signal "no more bytes coming" — the condition that makes ReadLine return
// a partial final line — while still being able to read the server's
// response on the read half.
func (c *Conn) CloseWrite() error {
	if cw, ok := c.c.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return c.Close()
}
