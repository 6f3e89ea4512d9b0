package main

import (
	"context"
	"os"

	"github.com/braxton-mills/WSLDistributionTools/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
