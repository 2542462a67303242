package storage

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	_ "github.com/bdandy/go-socks4"
	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/logger"
	"github.com/regginator/omniwordlist/pool"
	"github.com/regginator/omniwordlist/util"
)

const (
	defaultRemotePort = "9000"
	dialTimeout       = 30 * time.Second
)

// RemoteOptions configures a network sink.
type RemoteOptions struct {
	Format    string
	MaxBytes  uint64
	ProxyFile string
	// RateLimit caps tokens per second; 0 is unlimited.
	RateLimit float64
	// Resume carries the counters of a checkpointed run forward.
	Resume *SinkStats
}

// RemoteSink streams tokens to a tcp:// or ws(s):// consumer. Over a
// websocket each flushed buffer travels as one binary message.
type RemoteSink struct {
	*StreamSink

	ctx     context.Context
	target  string
	conn    net.Conn
	limiter *rate.Limiter
}

// wsConn adapts a websocket connection to net.Conn, one binary message
// per Write.
type wsConn struct {
	*websocket.Conn
}

func (c *wsConn) Read(b []byte) (int, error) {
	_, out, err := c.Conn.ReadMessage()
	n := copy(b, out)
	return n, err
}

func (c *wsConn) Write(b []byte) (int, error) {
	if err := c.Conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (c *wsConn) SetDeadline(t time.Time) error {
	if err := c.Conn.SetReadDeadline(t); err != nil {
		return err
	}
	return c.Conn.SetWriteDeadline(t)
}

// Close sends a close frame before dropping the connection.
func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.Conn.Close()
}

// DialRemote connects to target. With a proxy file every proxy is tried
// once, in rotation, until one connects.
func DialRemote(ctx context.Context, target string, opts RemoteOptions) (*RemoteSink, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "parsing output %s", target)
	}
	switch u.Scheme {
	case "tcp", "ws", "wss":
	default:
		return nil, errors.Storagef("unsupported remote scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.Storagef("remote output %s has no host", target)
	}

	var proxies *pool.Pool
	if opts.ProxyFile != "" {
		if proxies, err = pool.New(opts.ProxyFile); err != nil {
			return nil, err
		}
	}

	conn, err := dialWithProxies(ctx, u, proxies)
	if err != nil {
		return nil, err
	}

	stream, err := NewStreamSink(conn, SinkOptions{Format: opts.Format, MaxBytes: opts.MaxBytes, Resume: opts.Resume})
	if err != nil {
		conn.Close()
		return nil, err
	}
	s := &RemoteSink{StreamSink: stream, ctx: ctx, target: target, conn: conn}
	if opts.RateLimit > 0 {
		burst := max(1, int(opts.RateLimit))
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	logger.Infow("Connected remote output",
		logger.FieldAddress, target,
	)
	return s, nil
}

func dialWithProxies(ctx context.Context, u *url.URL, proxies *pool.Pool) (net.Conn, error) {
	if proxies == nil {
		return dial(ctx, u, nil)
	}

	var lastErr error
	for range proxies.Len() {
		p, err := proxies.Get()
		if err != nil {
			return nil, err
		}
		conn, err := dial(ctx, u, p)
		if err == nil {
			return conn, nil
		}
		logger.Warnw("Proxy failed",
			logger.FieldProxy, p.Redacted(),
			logger.FieldError, err.Error(),
		)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.WithHint(
		errors.WrapKindf(lastErr, errors.ErrStorage, "no proxy could reach %s", u.Host),
		"check the proxy list or drop proxy_file",
	)
}

func contextDialer(p *url.URL) (proxy.ContextDialer, error) {
	if p == nil {
		return &net.Dialer{Timeout: dialTimeout}, nil
	}
	d, err := proxy.FromURL(p, &net.Dialer{Timeout: dialTimeout})
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrConfig, "proxy %s", p.Redacted())
	}
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd, nil
	}
	return contextless{d}, nil
}

// contextless lets a proxy.Dialer without DialContext stand in for one.
type contextless struct {
	proxy.Dialer
}

func (d contextless) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Dial(network, addr)
}

func dial(ctx context.Context, u *url.URL, p *url.URL) (net.Conn, error) {
	d, err := contextDialer(p)
	if err != nil {
		return nil, err
	}

	if u.Scheme == "tcp" {
		addr := util.AddrWithDefaultPort(u.Host, defaultRemotePort)
		// socks4 carries no hostnames, and a direct dial gains nothing
		// from deferring the lookup
		if p == nil || p.Scheme == "socks4" {
			if addr, err = util.LookupAddr(addr); err != nil {
				return nil, err
			}
		}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, errors.WrapKindf(err, errors.ErrStorage, "connecting to %s", addr)
		}
		return conn, nil
	}

	wsDialer := &websocket.Dialer{
		HandshakeTimeout: dialTimeout,
		NetDialContext:   d.DialContext,
	}
	ws, _, err := wsDialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrStorage, "connecting to %s", u.Redacted())
	}
	return &wsConn{ws}, nil
}

// Write waits on the rate limiter, then appends one token.
func (s *RemoteSink) Write(token string) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(s.ctx); err != nil {
			return errors.WrapKindf(err, errors.ErrStorage, "waiting to send to %s", s.target)
		}
	}
	return s.StreamSink.Write(token)
}

// Close flushes and closes the connection.
func (s *RemoteSink) Close() error {
	err := s.StreamSink.Close()
	if cerr := s.conn.Close(); err == nil && cerr != nil {
		err = errors.WrapKindf(cerr, errors.ErrStorage, "closing %s", s.target)
	}
	return err
}
