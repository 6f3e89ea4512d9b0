package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/braxton-mills/WSLDistributionTools/pkg/cli/config"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
	"github.com/braxton-mills/WSLDistributionTools/pkg/infra/wsl"
	"github.com/braxton-mills/WSLDistributionTools/pkg/usecase"
	"github.com/braxton-mills/WSLDistributionTools/pkg/utils/progress"
)

func cmdExport() *cli.Command {
	var (
		wslCfg  config.WSL
		sizeGB  int64
		vhd     bool
		jsonOut bool
	)

	flags := append(wslCfg.Flags(),
		&cli.BoolFlag{
			Name:        "vhd",
			Usage:       "Produce a VHD image instead of a tar archive",
			Destination: &vhd,
		},
		&cli.Int64Flag{
			Name:        "size-gb",
			Usage:       "Estimated export size in GB (1-10000), skips storage probing",
			Destination: &sizeGB,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the result record as JSON on stdout",
			Destination: &jsonOut,
		},
	)

	return &cli.Command{
		Name:      "export",
		Aliases:   []string{"e"},
		Usage:     "Export a distribution to a portable disk image",
		ArgsUsage: "<distribution> <destination>",
		Flags:     flags,
		Description: `Shuts down the distribution, launches the external export process and
monitors the growing destination file with a live progress display.

Do not interrupt a running export: the child process is not cancelled
and a partial destination file is left behind.`,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("expected exactly two arguments: <distribution> <destination>")
			}

			req := &model.ExportRequest{
				Distribution: c.Args().Get(0),
				DestPath:     c.Args().Get(1),
				VHDFormat:    vhd,
				SizeGB:       sizeGB,
			}

			client := wsl.NewClient(wsl.WithPath(wslCfg.Path))
			exporter := wsl.NewExporter(wsl.WithPath(wslCfg.Path))

			exportUC := usecase.NewExport(client, exporter,
				usecase.WithPollInterval(wslCfg.PollInterval),
			)

			result := exportUC.Run(ctx, req)

			if jsonOut {
				if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
					return goerr.Wrap(err, "failed to encode result")
				}
			}

			if !result.Success {
				color.New(color.FgRed).Fprintf(os.Stderr, "export failed: %s\n", result.Error)
				return goerr.New(result.Error, goerr.V("exit_code", result.ExitCode))
			}

			color.New(color.FgGreen).Fprintf(os.Stderr, "exported %s to %s (%.2f GB in %s)\n",
				req.Distribution,
				result.ExportPath,
				result.SizeGB,
				progress.FormatDuration(result.Duration),
			)
			return nil
		},
	}
}

func cmdList() *cli.Command {
	var wslCfg config.WSL

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List installed distributions",
		Flags:   wslCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			client := wsl.NewClient(wsl.WithPath(wslCfg.Path))

			names, err := client.ListDistributions(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list distributions")
			}

			ctxlog.From(ctx).Debug("Listed distributions", "count", len(names))
			for _, name := range names {
				if _, err := os.Stdout.WriteString(name + "\n"); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
