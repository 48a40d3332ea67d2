// SPDX-License-Identifier: EPL-2.0

// Command audctl plays audio files through a worker process.
//
//	audctl [flags] [file]      interactive controller shell
//	audctl worker [flags]      worker serving commands on stdin/stdout
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/audctl/internal/config"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

type options struct {
	configPath string
	debug      bool
	sink       string
	wavPath    string
	workerPath string
}

func main() {
	var opts options
	var showHelp bool

	flag.StringVarP(&opts.configPath, "config", "c", "", "path to YAML config file")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flag.StringVar(&opts.sink, "sink", "", "audio sink: speaker, wav or null")
	flag.StringVar(&opts.wavPath, "wav", "", "output file for the wav sink")
	flag.StringVar(&opts.workerPath, "worker", "", "worker executable (default: this binary)")
	flag.BoolVarP(&showHelp, "help", "h", false, "print help and exit")
	flag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [file]\n       %s worker [flags]\n\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "audctl:", err)
		os.Exit(2)
	}

	log := newLogger(cfg.LogLevel, opts.debug, os.Stderr)

	args := flag.Args()
	if len(args) > 0 && args[0] == "worker" {
		if err := runWorker(cfg, log); err != nil {
			log.Error().Err(err).Msg("worker failed")
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runShell(ctx, cfg, opts, args, log); err != nil {
		log.Error().Err(err).Msg("controller failed")
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.sink != "" {
		cfg.Worker.Sink = opts.sink
	}
	if opts.wavPath != "" {
		cfg.Worker.WavPath = opts.wavPath
	}
	if opts.workerPath != "" {
		cfg.Controller.WorkerPath = opts.workerPath
	}
	if opts.debug {
		cfg.LogLevel = zerolog.DebugLevel.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// workerArgs forwards the resolved settings to the worker process.
func workerArgs(cfg *config.Config, opts options) []string {
	args := []string{"worker", "--sink", cfg.Worker.Sink, "--wav", cfg.Worker.WavPath}
	if opts.configPath != "" {
		args = append(args, "--config", opts.configPath)
	}
	if opts.debug {
		args = append(args, "--debug")
	}
	return args
}
