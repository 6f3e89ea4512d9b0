package model

import (
	"math"
	"time"
)

// GiB is the number of bytes in one gibibyte
const GiB = int64(1) << 30

// ExportRequest represents a single export invocation. It is built once
// from CLI input and never mutated afterwards.
type ExportRequest struct {
	Distribution string // WSL distribution name
	DestPath     string // Absolute destination path, must not exist yet
	VHDFormat    bool   // true = VHD image output, false = tar archive
	SizeGB       int64  // User-supplied size estimate in GB, 0 = probe storage
}

// ExportResult represents the terminal outcome of an export run.
// ExitCode -1 means the run never reached a result-bearing path
// (validation or launch failure before the child produced an exit code).
type ExportResult struct {
	Success    bool          `json:"success"`
	ExportPath string        `json:"exportPath"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	SizeGB     float64       `json:"sizeGB"`
	ExitCode   int           `json:"exitCode"`
}

// FailedResult builds an ExportResult for a run that failed before or
// without a child exit code.
func FailedResult(req *ExportRequest, err error, elapsed time.Duration) *ExportResult {
	return &ExportResult{
		Success:    false,
		ExportPath: req.DestPath,
		Error:      err.Error(),
		Duration:   elapsed,
		ExitCode:   -1,
	}
}

// BytesToGB converts a byte count to gigabytes rounded to 2 decimal places.
func BytesToGB(bytes int64) float64 {
	return math.Round(float64(bytes)/float64(GiB)*100) / 100
}
