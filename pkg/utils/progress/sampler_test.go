package progress_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/braxton-mills/WSLDistributionTools/pkg/domain/model"
	"github.com/braxton-mills/WSLDistributionTools/pkg/utils/progress"
)

func TestSampler_Sample(t *testing.T) {
	total := int64(10 * model.GiB)

	t.Run("percentage is monotonically non-decreasing", func(t *testing.T) {
		s := progress.NewSampler(total, &bytes.Buffer{})

		prev := -1.0
		for _, current := range []int64{0, model.GiB, 3 * model.GiB, 7 * model.GiB, total} {
			sample := s.Sample(current, 10*time.Second)
			gt.Number(t, sample.Percent).GreaterOrEqual(prev)
			gt.Number(t, sample.Percent).GreaterOrEqual(0)
			gt.Number(t, sample.Percent).LessOrEqual(100)
			prev = sample.Percent
		}
	})

	t.Run("percentage is clamped when file outgrows the estimate", func(t *testing.T) {
		s := progress.NewSampler(total, &bytes.Buffer{})

		sample := s.Sample(15*model.GiB, time.Minute)
		gt.Number(t, sample.Percent).Equal(100)
	})

	t.Run("zero elapsed yields zero sample without dividing", func(t *testing.T) {
		s := progress.NewSampler(total, &bytes.Buffer{})

		for _, elapsed := range []time.Duration{0, -time.Second} {
			sample := s.Sample(model.GiB, elapsed)
			gt.Number(t, sample.Throughput).Equal(0)
			gt.Number(t, sample.Percent).Equal(0)
			gt.Value(t, sample.Remaining).Equal(time.Duration(0))
		}
	})

	t.Run("throughput is cumulative average", func(t *testing.T) {
		s := progress.NewSampler(total, &bytes.Buffer{})

		sample := s.Sample(4*model.GiB, 8*time.Second)
		gt.Number(t, sample.Throughput).Equal(float64(4*model.GiB) / 8)
	})

	t.Run("remaining is zero when the file reached the estimate", func(t *testing.T) {
		s := progress.NewSampler(total, &bytes.Buffer{})

		sample := s.Sample(total, time.Minute)
		gt.Value(t, sample.Remaining).Equal(time.Duration(0))
	})

	t.Run("remaining derives from throughput", func(t *testing.T) {
		s := progress.NewSampler(total, &bytes.Buffer{})

		// Half done in 30s at a steady rate leaves about 30s
		sample := s.Sample(5*model.GiB, 30*time.Second)
		gt.Number(t, sample.Remaining.Seconds()).GreaterOrEqual(29)
		gt.Number(t, sample.Remaining.Seconds()).LessOrEqual(31)
	})
}

func TestSampler_Render(t *testing.T) {
	t.Run("rewrites the line in place without newline", func(t *testing.T) {
		var buf bytes.Buffer
		s := progress.NewSampler(10*model.GiB, &buf)

		s.Render(s.Sample(model.GiB, time.Second))
		s.Render(s.Sample(2*model.GiB, 2*time.Second))

		out := buf.String()
		gt.Number(t, strings.Count(out, "\r")).Equal(2)
		gt.False(t, strings.Contains(out, "\n"))

		s.Finish()
		gt.True(t, strings.HasSuffix(buf.String(), "\n"))
	})

	t.Run("spinner advances one frame per call", func(t *testing.T) {
		var buf bytes.Buffer
		s := progress.NewSampler(10*model.GiB, &buf)
		sample := s.Sample(model.GiB, time.Second)

		glyphs := []string{"\r|", "\r/", "\r-", "\r\\", "\r|"}
		for i, want := range glyphs {
			before := buf.Len()
			s.Render(sample)
			chunk := buf.String()[before:]
			if !strings.HasPrefix(chunk, want) {
				t.Fatalf("render %d: got %q, want prefix %q", i, chunk, want)
			}
		}
	})

	t.Run("renders the estimate as the denominator", func(t *testing.T) {
		var buf bytes.Buffer
		s := progress.NewSampler(5*model.GiB, &buf)

		s.Render(s.Sample(model.GiB, time.Second))
		gt.True(t, strings.Contains(buf.String(), "/ 5.00 GB"))
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{bytes: 512, want: "512 B"},
		{bytes: 2 << 10, want: "2.00 KB"},
		{bytes: 3 << 20, want: "3.00 MB"},
		{bytes: 256 * model.GiB, want: "256.00 GB"},
		{bytes: 2 << 40, want: "2.00 TB"},
	}

	for _, tt := range tests {
		gt.Value(t, progress.FormatBytes(tt.bytes)).Equal(tt.want)
	}
}

func TestFormatDuration(t *testing.T) {
	gt.Value(t, progress.FormatDuration(42*time.Second)).Equal("42s")
	gt.Value(t, progress.FormatDuration(90*time.Second)).Equal("1m 30s")
	gt.Value(t, progress.FormatDuration(3*time.Hour+25*time.Minute+10*time.Second)).Equal("3h 25m 10s")
}
