package usecase

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/interfaces"
	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
)

// DefaultSizeGB is assumed when the backing storage of a distribution
// cannot be probed.
const DefaultSizeGB = 256

type sizeEstimator struct {
	wsl interfaces.Manager
}

// NewSizeEstimator creates the size estimation use case
func NewSizeEstimator(wsl interfaces.Manager) *sizeEstimator {
	return &sizeEstimator{wsl: wsl}
}

// Estimate determines the expected final export size in bytes. A
// user-supplied estimate (userGB > 0) wins; otherwise the current size
// of the distribution's backing storage is rounded up to a whole GiB.
//
// The estimate only scales the progress denominator. Probing failure is
// therefore soft: it logs a warning and falls back to DefaultSizeGB
// instead of aborting the export.
func (uc *sizeEstimator) Estimate(ctx context.Context, distribution string, userGB int64) int64 {
	if userGB > 0 {
		return userGB * model.GiB
	}

	logger := ctxlog.From(ctx)

	path, err := uc.wsl.StoragePath(ctx, distribution)
	if err == nil {
		var fi os.FileInfo
		if fi, err = os.Stat(path); err == nil && fi.Size() > 0 {
			gb := (fi.Size() + model.GiB - 1) / model.GiB
			logger.Debug("Probed distribution storage",
				"distribution", distribution, "path", path, "size_gb", gb)
			return gb * model.GiB
		}
	}

	logger.Warn("Failed to probe distribution storage, assuming default size",
		"distribution", distribution,
		"default_gb", DefaultSizeGB,
		"error", err,
	)
	return DefaultSizeGB * model.GiB
}
