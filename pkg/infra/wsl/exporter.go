package wsl

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/interfaces"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/types"
	"github.com/braxton-mills/WSLDistributionTools/pkg/utils/async"
)

// Exporter launches `wsl.exe --export` child processes
type Exporter struct {
	wslPath string
}

// NewExporter creates a new Exporter
func NewExporter(opts ...Option) *Exporter {
	cfg := config{wslPath: DefaultCommand}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Exporter{wslPath: cfg.wslPath}
}

var _ interfaces.Exporter = (*Exporter)(nil)

// Start launches the export child process.
//
// The command is deliberately built without CommandContext: once the
// export has started there is no safe way to cancel it, and killing
// wsl.exe mid-export leaves a partial image behind. Interrupting the
// supervisor abandons the child rather than terminating it.
func (e *Exporter) Start(ctx context.Context, req *model.ExportRequest) (interfaces.ExportProcess, error) {
	args := []string{"--export", req.Distribution, req.DestPath}
	if req.VHDFormat {
		args = append(args, "--vhd")
	}

	p := &process{done: make(chan struct{})}

	cmd := exec.Command(e.wslPath, args...)
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	hideWindow(cmd)

	ctxlog.From(ctx).Debug("Launching export process",
		"path", e.wslPath, "args", args)

	if err := cmd.Start(); err != nil {
		return nil, goerr.Wrap(err, "failed to launch export process",
			goerr.V("path", e.wslPath),
			goerr.V("args", args),
			goerr.T(types.TagLaunch))
	}

	p.cmd = cmd
	async.Dispatch(ctx, p.wait)

	return p, nil
}

// process is a handle on a running wsl.exe --export child
type process struct {
	cmd      *exec.Cmd
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	exitCode int
	done     chan struct{}
}

// wait blocks until the child exits, records its exit code, and closes
// done. The channel close publishes exitCode and the output buffers to
// Exited callers.
func (p *process) wait(ctx context.Context) error {
	defer close(p.done)

	err := p.cmd.Wait()
	p.exitCode = p.cmd.ProcessState.ExitCode()

	// A nonzero exit is reported through the exit code; only IO-level
	// wait failures are worth logging here
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return goerr.Wrap(err, "failed to wait for export process")
	}
	return nil
}

// Exited reports, without blocking, whether the child has terminated
func (p *process) Exited() (bool, int) {
	select {
	case <-p.done:
		return true, p.exitCode
	default:
		return false, 0
	}
}

// Stdout returns the captured standard output of the exited child
func (p *process) Stdout() string {
	return string(DecodeConsoleOutput(p.stdout.Bytes()))
}

// Stderr returns the captured standard error of the exited child
func (p *process) Stderr() string {
	return string(DecodeConsoleOutput(p.stderr.Bytes()))
}
