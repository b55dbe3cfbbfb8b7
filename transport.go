package sender

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// conn is a single-use connection carrying one request frame and one response.
type conn struct {
	ctx     context.Context
	nc      net.Conn
	stop    func() bool
	maxRead int64
	// deadline covers connect, write and read; zero means none
	deadline time.Time
}

// dial connects to endpoint. A positive timeout sets one deadline shared by
// the connect, write and read phases. A negative maxRead disables the
// response size limit.
func dial(ctx context.Context, endpoint Endpoint, timeout time.Duration, maxRead int64) (*conn, error) {
	addr := endpoint.Addr()
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	dialer := net.Dialer{Deadline: deadline}
	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectionError{Addr: addr, Err: err}
	}

	if !deadline.IsZero() {
		if err := nc.SetDeadline(deadline); err != nil {
			nc.Close()
			return nil, &ConnectionError{Addr: addr, Err: err}
		}
	}

	c := &conn{ctx: ctx, nc: nc, maxRead: maxRead, deadline: deadline}
	// unblock a pending read or write once the caller gives up
	c.stop = context.AfterFunc(ctx, func() {
		_ = nc.SetDeadline(time.Unix(1, 0))
	})
	return c, nil
}

func (c *conn) sendFrame(frame []byte) error {
	if _, err := c.nc.Write(frame); err != nil {
		return &SendError{Op: "write", Err: c.cause(err)}
	}
	return nil
}

// receiveAll reads until the peer closes the connection.
func (c *conn) receiveAll() ([]byte, error) {
	var r io.Reader = c.nc
	if c.maxRead >= 0 {
		r = io.LimitReader(c.nc, c.maxRead+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &SendError{Op: "read", Err: c.cause(err)}
	}
	if c.maxRead >= 0 && int64(len(data)) > c.maxRead {
		return nil, &FormatError{Reason: fmt.Sprintf("response exceeds %d bytes", c.maxRead)}
	}
	return data, nil
}

func (c *conn) close() error {
	c.stop()
	return c.nc.Close()
}

func (c *conn) cause(err error) error {
	if ctxErr := c.ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}
