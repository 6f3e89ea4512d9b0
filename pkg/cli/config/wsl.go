package config

import (
	"time"

	"github.com/urfave/cli/v3"
)

// WSL holds configuration for reaching the WSL subsystem
type WSL struct {
	Path         string
	PollInterval time.Duration
}

// Flags returns CLI flags for WSL configuration
func (c *WSL) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "wsl-path",
			Usage:       "Path of the WSL command-line executable",
			Value:       "wsl.exe",
			Destination: &c.Path,
			Sources:     cli.EnvVars("WSLEXPORT_WSL_PATH"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Progress polling cadence during export",
			Value:       500 * time.Millisecond,
			Destination: &c.PollInterval,
			Sources:     cli.EnvVars("WSLEXPORT_POLL_INTERVAL"),
		},
	}
}
