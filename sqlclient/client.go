package sqlclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tuannm99/novaquery/internal/sql/executor"
	"github.com/tuannm99/novaquery/server/querywire"
)

// ErrClosed is returned by Exec on a nil or closed client.
var ErrClosed = errors.New("sqlclient: client is closed")

// Client is a synchronous client. Concurrent Exec calls are serialized on
// the connection.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
	id   atomic.Uint64

	// 0 means no per-request deadline.
	rwTimeout time.Duration
}

func Dial(addr string, timeout time.Duration) (*Client, error) {
	return DialContext(context.Background(), addr, timeout)
}

func DialContext(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("sqlclient: dial %s: %w", addr, err)
	}
	return &Client{conn: c}, nil
}

// SetRWTimeout sets a deadline applied to each Exec without a context
// deadline.
func (c *Client) SetRWTimeout(d time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.rwTimeout = d
	c.mu.Unlock()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) Exec(sql string) (*executor.Result, error) {
	return c.ExecContext(context.Background(), sql)
}

// ExecContext sends one statement and waits for its response. Parse and
// execution failures reported by the server come back as plain errors.
func (c *Client) ExecContext(ctx context.Context, sql string) (*executor.Result, error) {
	if c == nil {
		return nil, ErrClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrClosed
	}

	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = c.conn.SetDeadline(time.Time{}) }()

	reqID := c.id.Add(1)
	if err := querywire.WriteFrame(c.conn, querywire.ExecuteRequest{ID: reqID, SQL: sql}); err != nil {
		return nil, err
	}

	var resp querywire.ExecuteResponse
	if err := querywire.ReadFrame(c.conn, &resp); err != nil {
		return nil, err
	}

	if resp.ID != reqID {
		return nil, fmt.Errorf("sqlclient: response id mismatch: got=%d want=%d", resp.ID, reqID)
	}
	return resp.Outcome()
}

func (c *Client) applyDeadline(ctx context.Context) error {
	if dl, ok := ctx.Deadline(); ok {
		return c.conn.SetDeadline(dl)
	}
	if c.rwTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.rwTimeout))
	}
	return nil
}
