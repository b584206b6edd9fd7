// Package netlink is the game's byte-stream link to the server: a blocking
// client connection and the server that accepts it.
package netlink

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
)

// Networker holds the client's connection to the server.
type Networker struct {
	Address string

	conn net.Conn
}

// NewNetworker returns an unconnected Networker for address.
func NewNetworker(address string) *Networker {
	return &Networker{Address: address}
}

// Connect makes a single blocking connection attempt.
func (n *Networker) Connect(ctx context.Context) error {
	if n.conn != nil {
		return errors.New("already connected")
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", n.Address)
	if err != nil {
		return errors.Wrapf(err, "connecting to %s", n.Address)
	}
	n.conn = conn
	return nil
}

// Connected reports whether Connect succeeded and Close has not been called.
func (n *Networker) Connected() bool {
	return n.conn != nil
}

// Write sends p to the server.
func (n *Networker) Write(p []byte) (int, error) {
	if n.conn == nil {
		return 0, errors.New("not connected")
	}
	return n.conn.Write(p)
}

func (n *Networker) Close() error {
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}
