package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/interfaces"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/types"
	"github.com/braxton-mills/WSLDistributionTools/pkg/utils/progress"
)

// DefaultPollInterval is the cadence of destination-file size probes
// and child exit checks while an export runs.
const DefaultPollInterval = 500 * time.Millisecond

// exportConfig holds internal supervisor configuration
type exportConfig struct {
	out      io.Writer
	interval time.Duration
}

// ExportOption is a functional option for the export supervisor
type ExportOption func(*exportConfig)

// WithProgressOutput sets the writer the progress line is rendered to
func WithProgressOutput(w io.Writer) ExportOption {
	return func(c *exportConfig) {
		c.out = w
	}
}

// WithPollInterval overrides the monitoring poll cadence
func WithPollInterval(d time.Duration) ExportOption {
	return func(c *exportConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

type exportUseCase struct {
	wsl       interfaces.Manager
	exporter  interfaces.Exporter
	preflight *preflightUseCase
	estimator *sizeEstimator
	cfg       exportConfig
}

// NewExport creates the export supervisor use case
func NewExport(wsl interfaces.Manager, exporter interfaces.Exporter, opts ...ExportOption) interfaces.ExportUseCase {
	cfg := exportConfig{
		out:      os.Stderr,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &exportUseCase{
		wsl:       wsl,
		exporter:  exporter,
		preflight: NewPreflight(wsl),
		estimator: NewSizeEstimator(wsl),
		cfg:       cfg,
	}
}

// Run drives an export through its lifecycle:
//
//	NotStarted → Launching → Monitoring → Finalizing → Succeeded | Failed
//
// Every documented failure class is converted into a failed
// ExportResult; Run never panics through to the caller. Pre-launch
// failures carry exit code -1, a launched child's own exit code is
// passed through otherwise.
func (uc *exportUseCase) Run(ctx context.Context, req *model.ExportRequest) *model.ExportResult {
	logger := ctxlog.From(ctx).With(
		"run_id", uuid.NewString(),
		"distribution", req.Distribution,
	)
	ctx = ctxlog.With(ctx, logger)

	start := time.Now()
	state := model.StateNotStarted

	if err := uc.preflight.Validate(ctx, req); err != nil {
		logger.Error("Preflight validation failed", "error", err)
		return uc.finish(logger, transition(logger, state, model.StateFailed), model.FailedResult(req, err, time.Since(start)))
	}

	// The export contract requires a quiesced source: a running
	// distribution may have in-flight writes and export inconsistently
	if err := uc.wsl.Terminate(ctx, req.Distribution); err != nil {
		logger.Error("Failed to quiesce distribution", "error", err)
		return uc.finish(logger, transition(logger, state, model.StateFailed), model.FailedResult(req, err, time.Since(start)))
	}

	total := uc.estimator.Estimate(ctx, req.Distribution, req.SizeGB)
	uc.preflight.CheckFreeSpace(ctx, filepath.Dir(req.DestPath), total)

	logger.Info("Starting export",
		"destination", req.DestPath,
		"vhd", req.VHDFormat,
		"estimated", progress.FormatBytes(total),
	)

	state = transition(logger, state, model.StateLaunching)
	proc, err := uc.exporter.Start(ctx, req)
	if err != nil {
		logger.Error("Failed to launch export process", "error", err)
		return uc.finish(logger, transition(logger, state, model.StateFailed), model.FailedResult(req, err, time.Since(start)))
	}

	state = transition(logger, state, model.StateMonitoring)
	sampler := progress.NewSampler(total, uc.cfg.out)
	launched := time.Now()

	var lastSample *model.ProgressSample
	var exitCode int

	ticker := time.NewTicker(uc.cfg.interval)
	defer ticker.Stop()

	for state == model.StateMonitoring {
		<-ticker.C

		// Transient stat failures (file not created yet, momentarily
		// locked) skip the tick rather than abort the run
		if fi, statErr := os.Stat(req.DestPath); statErr == nil {
			if elapsed := time.Since(launched); elapsed > 0 {
				sample := sampler.Sample(fi.Size(), elapsed)
				sampler.Render(sample)
				lastSample = &sample
			}
		}

		if exited, code := proc.Exited(); exited {
			state = transition(logger, state, model.StateFinalizing)
			exitCode = code
		}
	}
	sampler.Finish()

	result := &model.ExportResult{
		ExportPath: req.DestPath,
		Duration:   time.Since(start),
		ExitCode:   exitCode,
	}

	if exitCode != 0 {
		err := goerr.New(exportErrorMessage(proc, exitCode),
			goerr.V("exit_code", exitCode),
			goerr.T(types.TagRuntime))
		result.Error = err.Error()
		logger.Error("Export process failed", "error", err)
		return uc.finish(logger, transition(logger, state, model.StateFailed), result)
	}

	result.Success = true
	result.SizeGB = model.BytesToGB(uc.finalSize(req.DestPath, lastSample))
	logger.Info("Export completed",
		"destination", result.ExportPath,
		"size_gb", result.SizeGB,
		"duration", result.Duration,
	)
	return uc.finish(logger, transition(logger, state, model.StateSucceeded), result)
}

// transition advances the supervisor state machine. States only move
// forward; the terminal state ends up recorded on the result via finish.
func transition(logger *slog.Logger, from, to model.SupervisorState) model.SupervisorState {
	logger.Debug("State transition", "from", string(from), "to", string(to))
	return to
}

// finish records the terminal state and hands the result back
func (uc *exportUseCase) finish(logger *slog.Logger, state model.SupervisorState, result *model.ExportResult) *model.ExportResult {
	logger.Debug("Export supervisor finished",
		"state", string(state),
		"exit_code", result.ExitCode,
	)
	return result
}

// finalSize determines the exported byte count, preferring the last
// rendered sample over a fresh stat of the destination.
func (uc *exportUseCase) finalSize(destPath string, lastSample *model.ProgressSample) int64 {
	if lastSample != nil {
		return lastSample.CurrentBytes
	}
	if fi, err := os.Stat(destPath); err == nil {
		return fi.Size()
	}
	return 0
}

// exportErrorMessage builds the failure message for a nonzero exit,
// preferring stderr, then stdout, then a generic exit code message.
func exportErrorMessage(proc interfaces.ExportProcess, exitCode int) string {
	if msg := strings.TrimSpace(proc.Stderr()); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(proc.Stdout()); msg != "" {
		return msg
	}
	return fmt.Sprintf("export process exited with code %d", exitCode)
}
