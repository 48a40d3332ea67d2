// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ik5/audctl/controller"
	"github.com/ik5/audctl/internal/config"
	"github.com/ik5/audctl/protocol"
	"github.com/rs/zerolog"
)

// player is the part of the controller the shell drives.
type player interface {
	Load(path string) error
	Play() error
	Pause() error
	Ping() error
	Status() error
}

const shellHelp = `commands:
  load <file>   open a file in the worker
  play [file]   start or resume playback, loading file first if given
  pause         pause, or resume when paused
  ping          check the worker responds
  status        ask the worker for its status
  help          show this text
  quit          stop the worker and leave`

func runShell(ctx context.Context, cfg *config.Config, opts options, args []string, log zerolog.Logger) error {
	ctl, err := controller.Spawn(ctx, controller.Options{
		Path:        cfg.Controller.WorkerPath,
		Args:        workerArgs(cfg, opts),
		StopTimeout: cfg.StopTimeout(),
		Logger:      log.With().Str("role", "controller").Logger(),
	})
	if err != nil {
		return err
	}
	defer ctl.Close()

	if err := ctl.Ping(); err != nil {
		return fmt.Errorf("worker not responding: %w", err)
	}

	if len(args) > 0 {
		if _, err := execLine(ctl, "play "+args[0], os.Stdout); err != nil {
			fmt.Fprintln(os.Stdout, "error:", err)
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "audctl> ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("load", readline.PcItemDynamic(listFiles)),
			readline.PcItem("play", readline.PcItemDynamic(listFiles)),
			readline.PcItem("pause"),
			readline.PcItem("ping"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		quit, err := execLine(ctl, line, rl.Stdout())
		if err != nil {
			fmt.Fprintln(rl.Stdout(), "error:", err)
			if isFatal(err) {
				return err
			}
		}
		if quit {
			return nil
		}
	}
}

// execLine runs one shell command and reports whether the shell should
// end.
func execLine(p player, line string, out io.Writer) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "load":
		if arg == "" {
			return false, errors.New("load needs a file")
		}
		return false, p.Load(arg)
	case "play":
		if arg != "" {
			if err := p.Load(arg); err != nil {
				return false, err
			}
		}
		return false, p.Play()
	case "pause":
		return false, p.Pause()
	case "ping":
		if err := p.Ping(); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "pong")
		return false, nil
	case "status":
		return false, p.Status()
	case "help", "?":
		fmt.Fprintln(out, shellHelp)
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}
}

// isFatal reports errors after which the worker cannot be used.
func isFatal(err error) bool {
	return errors.Is(err, protocol.ErrIO) ||
		errors.Is(err, controller.ErrClosed) ||
		errors.Is(err, controller.ErrUnexpectedResponse)
}

func listFiles(line string) []string {
	_, arg, _ := strings.Cut(line, " ")
	dir := filepath.Dir(arg)
	if arg == "" || strings.HasSuffix(arg, string(filepath.Separator)) {
		dir = arg
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if dir != "." || strings.HasPrefix(arg, "./") {
			name = filepath.Join(dir, name)
		}
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		names = append(names, name)
	}
	return names
}
