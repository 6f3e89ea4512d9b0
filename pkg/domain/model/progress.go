package model

import "time"

// ProgressSample is a point-in-time observation of a growing export
// file. Each sample is derived fresh on a poll tick and supersedes the
// previous one; nothing is persisted.
type ProgressSample struct {
	Elapsed      time.Duration // Time since the child process launched
	CurrentBytes int64         // Observed size of the destination file
	Throughput   float64       // Average bytes/sec since launch
	Percent      float64       // Completion percentage, clamped to [0,100]
	Remaining    time.Duration // Estimated time until completion
}
