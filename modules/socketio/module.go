// Package socketio provides a sink that delivers events to a Socket.IO
// server, emitting each event under its own event name.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/registrable/internal/ctxlog"
	"github.com/vk/registrable/internal/registries"
	"github.com/vk/registrable/sink"
)

// Module implements the registries.Module interface for this package.
type Module struct{}

// Sink emits events over a Socket.IO connection. A fresh connection is
// dialed per Emit call and torn down afterwards.
type Sink struct {
	url                string
	namespace          string
	timeout            time.Duration
	insecureSkipVerify bool
}

// New is the registered factory. Options: url (required), namespace,
// timeout (Go duration string, default 10s), insecure_skip_verify.
func New(opts map[string]string) (sink.Sink, error) {
	s := &Sink{
		namespace: "/",
		timeout:   10 * time.Second,
	}
	for key, value := range opts {
		switch key {
		case "url":
			s.url = value
		case "namespace":
			s.namespace = value
		case "timeout":
			timeout, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("socketio sink: invalid timeout %q: %w", value, err)
			}
			s.timeout = timeout
		case "insecure_skip_verify":
			skip, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("socketio sink: invalid insecure_skip_verify %q: %w", value, err)
			}
			s.insecureSkipVerify = skip
		default:
			return nil, fmt.Errorf("socketio sink: unknown option %q", key)
		}
	}
	if s.url == "" {
		return nil, fmt.Errorf("socketio sink: option %q is required", "url")
	}
	return s, nil
}

// Emit connects, emits the event with the encoded body as its payload, and
// disconnects. It fails when the connection cannot be established within the
// sink's timeout or the context is cancelled first.
func (s *Sink) Emit(ctx context.Context, event sink.Event, body []byte) error {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", s.url, "event", event.Name)
	logger.Debug("Emit started")
	defer logger.Debug("Emit finished")

	parsedURL, err := url.Parse(s.url)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	if s.insecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	done := make(chan error, 1)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	io.On(types.EventName("connect"), func(...any) {
		logger.Debug("Connected, emitting event", "namespace", s.namespace, "sid", io.Id())
		io.Emit(event.Name, string(body))
		done <- nil
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- err
				return
			}
		}
		done <- fmt.Errorf("socketio sink: connection failed")
	})

	io.Connect()

	select {
	case <-opCtx.Done():
		return fmt.Errorf("timed out while connecting to %s", s.url)
	case err := <-done:
		return err
	}
}

// Register registers the factory with the sink registry.
func (m *Module) Register(s *registries.Set) {
	s.Sinks.MustRegister("socketio", New)
}
