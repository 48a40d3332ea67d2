// SPDX-License-Identifier: EPL-2.0

package main

import (
	"os"

	"github.com/ik5/audctl"
	"github.com/ik5/audctl/internal/config"
	"github.com/rs/zerolog"
)

// runWorker serves the command channel on stdin and stdout. Nothing else
// may write to stdout in this mode.
func runWorker(cfg *config.Config, log zerolog.Logger) error {
	log = log.With().Str("role", "worker").Logger()
	return audctl.RunWorker(os.Stdin, os.Stdout, cfg, log)
}
