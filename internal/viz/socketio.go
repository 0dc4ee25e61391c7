package viz

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/meshplan/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ErrNotConnected is returned when the viewer cannot be reached.
var ErrNotConnected = errors.New("viewer not connected")

// SocketOptions configures a SocketSink.
type SocketOptions struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketSink streams frames to a socket.io viewer. The connection is opened
// on the first Flush and reused until Close.
type SocketSink struct {
	frameBuffer
	opts    SocketOptions
	baseURL string
	path    string

	connMu    sync.Mutex
	io        *socket.Socket
	connected atomic.Bool
}

// NewSocketSink validates the options. It does not connect.
func NewSocketSink(opts SocketOptions) (*SocketSink, error) {
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("viewer URL %q needs a scheme and host", opts.URL)
	}
	if opts.Namespace == "" {
		opts.Namespace = "/"
	}
	if opts.Event == "" {
		opts.Event = "frame"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &SocketSink{
		opts:    opts,
		baseURL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:    parsed.Path,
	}, nil
}

// Flush implements Sink. The buffered frame is dropped if the viewer cannot
// be reached.
func (s *SocketSink) Flush(ctx context.Context) error {
	frame := s.take()
	if frame.Empty() {
		return nil
	}
	io, err := s.connect(ctx)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Emitting frame.", "event", s.opts.Event,
		"triangles", len(frame.Triangles), "borders", len(frame.Borders), "traces", len(frame.Traces))
	io.Emit(s.opts.Event, frame)
	return nil
}

// Close disconnects from the viewer.
func (s *SocketSink) Close() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.io != nil {
		s.io.Disconnect()
		s.io = nil
	}
}

func (s *SocketSink) connect(ctx context.Context) (*socket.Socket, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.io != nil && s.connected.Load() {
		return s.io, nil
	}
	if s.io != nil {
		s.io.Disconnect()
		s.io = nil
	}
	logger := ctxlog.FromContext(ctx).With("url", s.opts.URL, "namespace", s.opts.Namespace)

	opts := socket.DefaultOptions()
	opts.SetPath(s.path)
	if s.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(s.baseURL, opts)
	io := manager.Socket(s.opts.Namespace, opts)

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to viewer", "sid", io.Id())
		s.connected.Store(true)
		select {
		case done <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := ErrNotConnected
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = fmt.Errorf("%w: %w", ErrNotConnected, e)
			}
		}
		select {
		case done <- err:
		default:
		}
	})

	io.On(types.EventName("disconnect"), func(...any) {
		logger.Debug("Viewer disconnected")
		s.connected.Store(false)
	})

	opCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	io.Connect()

	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for initial connection: %w", ErrNotConnected)
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, err
		}
	}
	s.io = io
	return io, nil
}
