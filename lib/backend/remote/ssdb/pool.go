package ssdb

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// initialBackoffMs is the first retry delay; it doubles per attempt with a
// +-10% jitter
const initialBackoffMs = 50

// --------------------------------------------------------------------------
// Connectors
// --------------------------------------------------------------------------

// connector abstracts the transport-specific part of establishing a
// connection
type connector interface {
	// name returns the transport name ("tcp", "unix")
	name() string
	// dial establishes a single connection to the address
	dial(addr string, timeout time.Duration) (net.Conn, error)
	// upgrade applies protocol-specific settings to a fresh connection
	upgrade(conn net.Conn, config Config) error
}

// tcpConnector dials TCP endpoints and applies the TCP socket settings
type tcpConnector struct{}

func (tcpConnector) name() string { return "tcp" }

func (tcpConnector) dial(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, timeout)
}

func (tcpConnector) upgrade(conn net.Conn, config Config) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if err := tcpConn.SetNoDelay(config.TCPNoDelay); err != nil {
		return err
	}
	if config.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(config.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}
	if config.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(config.WriteBufferSize); err != nil {
			return err
		}
	}
	if config.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(config.ReadBufferSize); err != nil {
			return err
		}
	}
	return nil
}

// unixConnector dials unix domain socket endpoints
type unixConnector struct{}

func (unixConnector) name() string { return "unix" }

func (unixConnector) dial(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", addr, timeout)
}

func (unixConnector) upgrade(net.Conn, Config) error { return nil }

// splitEndpoint resolves an endpoint string into its connector and address.
// "tcp://host:port" and bare "host:port" select TCP, "unix:///path" selects
// a unix domain socket.
func splitEndpoint(endpoint string) (connector, string, error) {
	switch {
	case strings.HasPrefix(endpoint, "tcp://"):
		return tcpConnector{}, strings.TrimPrefix(endpoint, "tcp://"), nil
	case strings.HasPrefix(endpoint, "unix://"):
		return unixConnector{}, strings.TrimPrefix(endpoint, "unix://"), nil
	case strings.Contains(endpoint, "://"):
		return nil, "", fmt.Errorf("unsupported endpoint scheme %q", endpoint)
	default:
		return tcpConnector{}, endpoint, nil
	}
}

// --------------------------------------------------------------------------
// Pooled Connection
// --------------------------------------------------------------------------

// poolConn is a single pooled connection. The protocol multiplexes nothing,
// so the mutex is held for a full request/response round trip.
type poolConn struct {
	connector connector
	addr      string
	config    Config

	mu   sync.Mutex
	conn net.Conn
	rw   *bufio.ReadWriter
}

// roundTrip sends one command and reads its reply. A broken connection is
// re-dialed once before the request is written; an I/O failure tears the
// connection down so the next use reconnects.
func (p *poolConn) roundTrip(ctx context.Context, args []string) (*reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		if err := p.reconnect(); err != nil {
			return nil, err
		}
	}

	if err := p.conn.SetDeadline(p.deadline(ctx)); err != nil {
		p.teardown()
		return nil, err
	}

	if err := writeRequest(p.rw.Writer, args); err != nil {
		p.teardown()
		return nil, err
	}
	resp, err := readReply(p.rw.Reader)
	if err != nil {
		p.teardown()
		return nil, err
	}
	return resp, nil
}

// deadline combines the configured timeout with the context deadline,
// whichever comes first. The zero time means no deadline.
func (p *poolConn) deadline(ctx context.Context) time.Time {
	var d time.Time
	if p.config.TimeoutSecond > 0 {
		d = time.Now().Add(time.Duration(p.config.TimeoutSecond) * time.Second)
	}
	if ctxd, ok := ctx.Deadline(); ok && (d.IsZero() || ctxd.Before(d)) {
		d = ctxd
	}
	return d
}

// reconnect establishes or restores the connection; the caller holds the
// mutex
func (p *poolConn) reconnect() error {
	p.teardown()

	timeout := time.Duration(p.config.TimeoutSecond) * time.Second
	conn, err := p.connector.dial(p.addr, timeout)
	if err != nil {
		return fmt.Errorf("connect %s://%s: %w", p.connector.name(), p.addr, err)
	}
	if err := p.connector.upgrade(conn, p.config); err != nil {
		conn.Close()
		return fmt.Errorf("upgrade %s://%s: %w", p.connector.name(), p.addr, err)
	}

	p.conn = conn
	p.rw = bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
	reconnectsTotal.Inc()
	return nil
}

// teardown closes the connection so the next round trip re-dials; the
// caller holds the mutex
func (p *poolConn) teardown() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
		p.rw = nil
	}
}

// close shuts the connection down for good
func (p *poolConn) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardown()
}

// --------------------------------------------------------------------------
// Pool
// --------------------------------------------------------------------------

// pool holds the client's connections and distributes requests round robin
// with retries
type pool struct {
	config Config
	conns  []*poolConn
	next   atomic.Uint64
	closed atomic.Bool
}

// newPool builds the connection list and verifies that at least one
// endpoint is reachable
func newPool(config Config) (*pool, error) {
	if len(config.Endpoints) == 0 {
		return nil, fmt.Errorf("ssdb: no endpoints provided")
	}

	perEndpoint := max(1, config.ConnectionsPerEndpoint)
	conns := make([]*poolConn, 0, len(config.Endpoints)*perEndpoint)
	for _, endpoint := range config.Endpoints {
		conn, addr, err := splitEndpoint(strings.TrimSpace(endpoint))
		if err != nil {
			return nil, fmt.Errorf("ssdb: %w", err)
		}
		for i := 0; i < perEndpoint; i++ {
			conns = append(conns, &poolConn{connector: conn, addr: addr, config: config})
		}
	}

	p := &pool{config: config, conns: conns}

	// Probe connectivity once so a misconfigured endpoint fails fast;
	// individual connections still reconnect lazily later
	if err := p.conns[0].ping(); err != nil {
		return nil, fmt.Errorf("ssdb: %w", err)
	}
	return p, nil
}

// ping dials the connection without sending a command
func (p *poolConn) ping() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return nil
	}
	return p.reconnect()
}

// do runs one command with round-robin connection selection and retries
// with exponential backoff and jitter
func (p *pool) do(ctx context.Context, args []string) (*reply, error) {
	if p.closed.Load() {
		return nil, backend.ErrClosed
	}

	attempts := max(1, p.config.RetryCount)
	backoffMs := initialBackoffMs

	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := p.pick().roundTrip(ctx, args)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// Context failures are final; a new attempt cannot succeed
		if ctx.Err() != nil {
			return nil, lastErr
		}

		if i < attempts-1 {
			retriesTotal.Inc()
			// Exponential backoff with a small random jitter (+-10%)
			jitter := float64(backoffMs) * (0.9 + 0.2*rand.Float64())
			time.Sleep(time.Duration(jitter) * time.Millisecond)
			backoffMs *= 2
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

// pick selects the next connection via round robin
func (p *pool) pick() *poolConn {
	if len(p.conns) == 1 {
		return p.conns[0]
	}
	return p.conns[p.next.Add(1)%uint64(len(p.conns))]
}

// close shuts down every connection
func (p *pool) close() {
	if p.closed.Swap(true) {
		return
	}
	for _, conn := range p.conns {
		conn.close()
	}
}
