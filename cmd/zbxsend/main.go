package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	sender "github.com/itzg/zbx-sender"
	"github.com/rs/zerolog"
)

type options struct {
	configPath string
	server     string
	port       int
	host       string
	key        string
	value      string
	input      string
	verbose    bool
	config     sender.Config
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("zbxsend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "c", "", "TOML config file")
	fs.StringVar(&opts.server, "z", "", "server host (overrides config)")
	fs.IntVar(&opts.port, "p", 0, "server port (overrides config)")
	timeout := fs.Duration("t", 0, "I/O timeout per send (overrides config)")
	fs.StringVar(&opts.host, "s", "", "host name the values belong to")
	fs.StringVar(&opts.key, "k", "", "item key")
	fs.StringVar(&opts.value, "o", "", "item value")
	fs.StringVar(&opts.input, "i", "", "read Influx line protocol from file, - for stdin")
	fs.BoolVar(&opts.verbose, "v", false, "debug output")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.config = sender.Defaults()
	if opts.configPath != "" {
		cfg, err := sender.LoadConfig(opts.configPath)
		if err != nil {
			return options{}, err
		}
		opts.config = cfg
	}
	if opts.server != "" {
		opts.config.Host = opts.server
	}
	if opts.port != 0 {
		opts.config.Port = opts.port
	}
	if *timeout != 0 {
		opts.config.Timeout = *timeout
	}

	if opts.host == "" {
		return options{}, fmt.Errorf("-s host is required")
	}
	if opts.input == "" && opts.key == "" {
		return options{}, fmt.Errorf("either -k/-o or -i is required")
	}
	return opts, nil
}

func run(ctx context.Context, opts options, stdin io.Reader, log zerolog.Logger) error {
	if opts.config.Logger == nil && !opts.config.EnableLogging {
		opts.config.Logger = &log
	}
	s, err := sender.New(opts.config)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.key != "" {
		s.Add(opts.host, opts.key, opts.value)
	}
	if opts.input != "" {
		r := stdin
		if opts.input != "-" {
			f, err := os.Open(opts.input)
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		n, err := s.ParseLines(opts.host, r)
		if err != nil {
			return err
		}
		log.Debug().Int("count", n).Msg("parsed line protocol")
	}

	resp, err := s.SendResponse(ctx)
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("nothing to send")
	}

	event := log.Info().Str("addr", s.Endpoint().Addr()).Str("info", resp.Info)
	if info, err := sender.ParseInfo(resp.Info); err == nil {
		event = event.Int("processed", info.Processed).Int("failed", info.Failed).Int("total", info.Total)
		if info.Failed > 0 {
			event.Msg("sent with failures")
			return fmt.Errorf("%d of %d values failed", info.Failed, info.Total)
		}
	}
	event.Msg("sent")
	return nil
}

// flagExitCode maps an argument error to the process exit status; -h is not a failure.
func flagExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func main() {
	level := zerolog.InfoLevel
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		code := flagExitCode(err)
		if code != 0 {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := sender.ConsoleLogger(os.Stderr, level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opts, os.Stdin, log); err != nil {
		log.Error().Err(err).Msg("send failed")
		os.Exit(1)
	}
}
