package interfaces

import (
	"context"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
)

// ExportUseCase defines the interface for the export supervisor
type ExportUseCase interface {
	// Run drives an export from validation through completion. It never
	// returns an error to the caller: every documented failure class is
	// converted into a failed ExportResult.
	Run(ctx context.Context, req *model.ExportRequest) *model.ExportResult
}
