package netlink

import (
	"context"
	"io"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ReadSize bounds the single read the server makes from each client.
const ReadSize = 128

// Session is one accepted client connection.
type Session struct {
	ID     uuid.UUID
	Remote net.Addr
	// Received is the client's first read, at most ReadSize bytes.
	Received []byte
}

// Server accepts clients and reads from each on its own goroutine.
type Server struct {
	Log logrus.FieldLogger
	// OnSession is called after a client's read completes. Optional.
	OnSession func(Session)
}

func (s *Server) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// ListenAndServe binds address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", address)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts on listener until ctx is cancelled, then closes it and waits
// for in-flight sessions.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})

	group.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.Wrap(err, "accepting connection")
			}
			group.Go(func() error {
				s.handle(ctx, conn)
				return nil
			})
		}
	})

	err := group.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	session := Session{ID: uuid.New(), Remote: conn.RemoteAddr()}
	log := s.log().WithFields(logrus.Fields{
		"session": session.ID,
		"remote":  session.Remote,
	})
	log.Info("client connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, ReadSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		log.WithError(err).Warn("read failed")
	}
	session.Received = buf[:n]
	conn.Close()

	log.WithField("bytes", n).Info("client disconnected")
	if s.OnSession != nil {
		s.OnSession(session)
	}
}
