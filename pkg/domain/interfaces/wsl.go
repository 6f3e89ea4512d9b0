package interfaces

import (
	"context"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
)

// Manager defines operations against the host WSL subsystem other than
// the export itself
type Manager interface {
	// ListDistributions returns the names of all installed distributions
	ListDistributions(ctx context.Context) ([]string, error)

	// Terminate stops the given distribution so its filesystem is
	// quiesced before export
	Terminate(ctx context.Context, distribution string) error

	// StoragePath resolves the backing storage file (ext4.vhdx) of the
	// given distribution
	StoragePath(ctx context.Context, distribution string) (string, error)
}

// Exporter launches the external export process
type Exporter interface {
	// Start launches the export child process and returns a handle for
	// observing it. The process runs independently once started.
	Start(ctx context.Context, req *model.ExportRequest) (ExportProcess, error)
}

// ExportProcess is a handle on a running export child process
type ExportProcess interface {
	// Exited reports, without blocking, whether the process has
	// terminated and with which exit code. The exit code is only
	// meaningful when exited is true.
	Exited() (exited bool, exitCode int)

	// Stdout returns the captured standard output. Only valid after
	// Exited reports true.
	Stdout() string

	// Stderr returns the captured standard error. Only valid after
	// Exited reports true.
	Stderr() string
}
