package progress

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
)

// barWidth is the number of character slots in the rendered bar.
const barWidth = 50

// spinnerFrames rotate one position per render call to signal liveness
// while the observed size stalls.
var spinnerFrames = [...]byte{'|', '/', '-', '\\'}

// Sampler derives progress observations from noisy file-size readings
// and renders them as a single status line rewritten in place.
type Sampler struct {
	total int64
	out   io.Writer
	frame int
}

// NewSampler creates a Sampler. total is the estimated final size in
// bytes and scales the percentage denominator; it is advisory only.
func NewSampler(total int64, out io.Writer) *Sampler {
	return &Sampler{total: total, out: out}
}

// Sample computes a ProgressSample from the current file size and the
// elapsed time since launch. Throughput is the cumulative average since
// launch, not the rate since the previous tick; it lags after bursts
// but never jitters.
func (s *Sampler) Sample(current int64, elapsed time.Duration) model.ProgressSample {
	sample := model.ProgressSample{
		Elapsed:      elapsed,
		CurrentBytes: current,
	}
	if elapsed <= 0 {
		return sample
	}

	sample.Throughput = float64(current) / elapsed.Seconds()

	if s.total > 0 {
		pct := math.Round(float64(current)/float64(s.total)*1000) / 10
		// The total is an estimate; the file may legitimately outgrow it
		if pct > 100 {
			pct = 100
		}
		sample.Percent = pct
	}

	if sample.Throughput > 0 && current < s.total {
		secs := float64(s.total-current) / sample.Throughput
		sample.Remaining = time.Duration(secs * float64(time.Second))
	}

	return sample
}

// Render writes the sample as a status line, overwriting the previous
// one via carriage return. No newline is emitted; call Finish once the
// loop ends to release the line.
func (s *Sampler) Render(sample model.ProgressSample) {
	glyph := spinnerFrames[s.frame%len(spinnerFrames)]
	s.frame++

	fmt.Fprintf(s.out, "\r%c [%s] %5.1f%%  %s / %s  %s/s  ETA %s   ",
		glyph,
		renderBar(sample.Percent),
		sample.Percent,
		FormatBytes(sample.CurrentBytes),
		FormatBytes(s.total),
		FormatBytes(int64(sample.Throughput)),
		FormatDuration(sample.Remaining),
	)
}

// Finish terminates the redraw line with a newline.
func (s *Sampler) Finish() {
	fmt.Fprintln(s.out)
}

// renderBar draws a fixed-width bar: filled segment, position marker,
// blank remainder.
func renderBar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled >= barWidth {
		return strings.Repeat("=", barWidth)
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barWidth-filled-1)
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(b int64) string {
	const (
		kb = int64(1) << 10
		mb = kb << 10
		gb = mb << 10
		tb = gb << 10
	)

	switch {
	case b >= tb:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(tb))
	case b >= gb:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// FormatDuration formats a duration as a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm %ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}
