package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/registrable/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// mapFlag collects repeated key=value flags into a map.
type mapFlag map[string]string

func (m mapFlag) String() string {
	pairs := make([]string, 0, len(m))
	for key, value := range m {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (m mapFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	m[key] = val
	return nil
}

// Parse processes command-line arguments. It returns a populated Config and
// Command, a boolean indicating if the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, *app.Command, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("registrable", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Registrable - a named implementation registry with pluggable module catalogs.

Usage:
  registrable [options] COMMAND [ARGS]

Commands:
  list                 List registered implementations per base type.
  resolve BASE NAME    Resolve NAME in the BASE registry ('sink' or 'codec').
                       NAME may be a dotted module path served by the catalog.
  emit EVENT [k=v...]  Encode the key=value pairs and emit them as EVENT.

Options:
`)
		flagSet.PrintDefaults()
	}

	catalogFlag := flagSet.String("catalog", "", "Path to an .hcl module catalog file or directory.")
	sinkFlag := flagSet.String("sink", "", "Sink implementation for 'emit'. Empty uses the registry default.")
	codecFlag := flagSet.String("codec", "", "Codec implementation for 'emit'. Empty uses the registry default.")
	sinkOpts := make(mapFlag)
	flagSet.Var(sinkOpts, "opt", "Sink factory option as key=value. May be repeated.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, true, nil
		}
		return nil, nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	command := &app.Command{
		Name:     flagSet.Arg(0),
		Sink:     *sinkFlag,
		Codec:    *codecFlag,
		SinkOpts: sinkOpts,
	}
	rest := flagSet.Args()[1:]

	switch command.Name {
	case "list":
		if len(rest) != 0 {
			return nil, nil, false, &ExitError{Code: 2, Message: "list takes no arguments"}
		}
	case "resolve":
		if len(rest) != 2 {
			return nil, nil, false, &ExitError{Code: 2, Message: "resolve requires BASE and NAME arguments"}
		}
		command.Base, command.Lookup = rest[0], rest[1]
	case "emit":
		if len(rest) < 1 {
			return nil, nil, false, &ExitError{Code: 2, Message: "emit requires an EVENT argument"}
		}
		command.Event = rest[0]
		command.Payload = make(map[string]string, len(rest)-1)
		for _, pair := range rest[1:] {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return nil, nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("payload arguments must be key=value, got %q", pair)}
			}
			command.Payload[key] = value
		}
	default:
		return nil, nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command.Name)}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		CatalogPath: *catalogFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", command.Name)
	return config, command, false, nil
}
