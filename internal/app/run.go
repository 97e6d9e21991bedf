package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/registrable/internal/ctxlog"
	"github.com/vk/registrable/sink"
)

// Run executes the requested command.
func (a *App) Run(ctx context.Context, cmd *Command) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", cmd.Name)

	switch cmd.Name {
	case "list":
		return a.runList()
	case "resolve":
		return a.runResolve(cmd)
	case "emit":
		return a.runEmit(ctx, cmd)
	default:
		return fmt.Errorf("unknown command %q", cmd.Name)
	}
}

// runList prints the registered names of every base type, default
// implementation first.
func (a *App) runList() error {
	sinkNames, err := a.set.Sinks.Names()
	if err != nil {
		return err
	}
	codecNames, err := a.set.Codecs.Names()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "sink (%d): %s\n", len(sinkNames), strings.Join(sinkNames, ", "))
	fmt.Fprintf(a.outW, "codec (%d): %s\n", len(codecNames), strings.Join(codecNames, ", "))
	return nil
}

// runResolve looks a name up in the chosen base type's registry, including
// the qualified-path fallback through the catalog.
func (a *App) runResolve(cmd *Command) error {
	switch cmd.Base {
	case "sink":
		impl, err := a.set.Sinks.ByName(cmd.Lookup)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "%s resolved to %T\n", cmd.Lookup, impl)
	case "codec":
		impl, err := a.set.Codecs.ByName(cmd.Lookup)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "%s resolved to %T\n", cmd.Lookup, impl)
	default:
		return fmt.Errorf("unknown base type %q: must be 'sink' or 'codec'", cmd.Base)
	}
	return nil
}

// runEmit encodes the payload with the chosen codec and delivers it through
// the chosen sink.
func (a *App) runEmit(ctx context.Context, cmd *Command) error {
	codecName := cmd.Codec
	if codecName == "" {
		codecName = a.set.Codecs.Default()
	}
	enc, err := a.set.Codecs.ByName(codecName)
	if err != nil {
		return err
	}

	sinkName := cmd.Sink
	if sinkName == "" {
		sinkName = a.set.Sinks.Default()
	}
	factory, err := a.set.Sinks.ByName(sinkName)
	if err != nil {
		return err
	}
	snk, err := factory(cmd.SinkOpts)
	if err != nil {
		return fmt.Errorf("building sink %q: %w", sinkName, err)
	}

	payload := make(map[string]any, len(cmd.Payload))
	for key, value := range cmd.Payload {
		payload[key] = value
	}
	body, err := enc.Encode(payload)
	if err != nil {
		return fmt.Errorf("encoding payload with codec %q: %w", codecName, err)
	}

	event := sink.Event{Name: cmd.Event, Payload: payload}
	if err := snk.Emit(ctx, event, body); err != nil {
		return fmt.Errorf("emitting event %q via sink %q: %w", cmd.Event, sinkName, err)
	}

	a.logger.Info("Event emitted.", "event", cmd.Event, "sink", sinkName, "codec", codecName)
	return nil
}
