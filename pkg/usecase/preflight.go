package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/interfaces"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/types"
	"github.com/braxton-mills/WSLDistributionTools/pkg/utils/progress"
)

// Size estimate bounds in GB for user-supplied values
const (
	MinSizeGB = 1
	MaxSizeGB = 10000
)

type preflightUseCase struct {
	wsl interfaces.Manager
}

// NewPreflight creates the pre-launch validation use case
func NewPreflight(wsl interfaces.Manager) *preflightUseCase {
	return &preflightUseCase{wsl: wsl}
}

// Validate checks the request and environment before anything
// destructive happens. All failures here map to exit code -1.
func (uc *preflightUseCase) Validate(ctx context.Context, req *model.ExportRequest) error {
	if req.Distribution == "" {
		return goerr.New("distribution name must not be empty", goerr.T(types.TagValidation))
	}

	if req.SizeGB != 0 && (req.SizeGB < MinSizeGB || req.SizeGB > MaxSizeGB) {
		return goerr.New(fmt.Sprintf("estimated size must be between %d and %d GB", MinSizeGB, MaxSizeGB),
			goerr.V("size_gb", req.SizeGB), goerr.T(types.TagValidation))
	}

	if !filepath.IsAbs(req.DestPath) {
		return goerr.New("destination must be an absolute path",
			goerr.V("path", req.DestPath), goerr.T(types.TagValidation))
	}

	parent := filepath.Dir(req.DestPath)
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return goerr.New("destination directory does not exist",
			goerr.V("dir", parent), goerr.T(types.TagValidation))
	}

	if _, err := os.Stat(req.DestPath); err == nil {
		return goerr.New("destination file already exists",
			goerr.V("path", req.DestPath), goerr.T(types.TagValidation))
	}

	known, err := uc.wsl.ListDistributions(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to enumerate installed distributions", goerr.T(types.TagEnvironment))
	}
	for _, name := range known {
		if name == req.Distribution {
			return nil
		}
	}

	return goerr.New(fmt.Sprintf("unknown distribution %q (installed: %s)",
		req.Distribution, strings.Join(known, ", ")),
		goerr.T(types.TagEnvironment))
}

// CheckFreeSpace warns when the destination volume has less free space
// than the size estimate. The estimate itself is advisory, so this
// never aborts the export.
func (uc *preflightUseCase) CheckFreeSpace(ctx context.Context, dir string, totalBytes int64) {
	usage, err := disk.Usage(dir)
	if err != nil {
		ctxlog.From(ctx).Debug("Failed to read destination volume usage", "dir", dir, "error", err)
		return
	}

	if usage.Free < uint64(totalBytes) {
		ctxlog.From(ctx).Warn("Destination volume may run out of space",
			"dir", dir,
			"free", progress.FormatBytes(int64(usage.Free)),
			"estimated", progress.FormatBytes(totalBytes),
		)
	}
}
