// Package server owns live protocol connections: the per-connection session
// state machine, a newline-delimited text framing adapter, and the accept
// loop that runs one session per connection.
package server

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"sync"
)

// Conn is a transport-agnostic connection carrying discrete text messages.
// Transport concerns (upgrade, subprotocol negotiation, TLS) happen before a
// Conn reaches this package.
type Conn interface {
	// ReadMessage blocks until the next message or a transport failure.
	ReadMessage() ([]byte, error)
	// WriteMessage sends one message. Safe for sequential use only.
	WriteMessage(msg []byte) error
	Close() error
}

// ndjsonConn frames messages as newline-delimited JSON over a stream
// connection. Each message is one JSON object on a single line.
type ndjsonConn struct {
	c net.Conn
	r *bufio.Reader

	wmu sync.Mutex
}

// NewNDJSONConn wraps a stream connection with NDJSON framing.
func NewNDJSONConn(c net.Conn) Conn {
	return &ndjsonConn{c: c, r: bufio.NewReader(c)}
}

func (n *ndjsonConn) ReadMessage() ([]byte, error) {
	for {
		line, err := n.r.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return line, nil
			}
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		return line, nil
	}
}

func (n *ndjsonConn) WriteMessage(msg []byte) error {
	n.wmu.Lock()
	defer n.wmu.Unlock()
	if _, err := n.c.Write(msg); err != nil {
		return err
	}
	_, err := n.c.Write([]byte{'\n'})
	return err
}

func (n *ndjsonConn) Close() error {
	return n.c.Close()
}
