package issuance

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is owned by a single run and copied to observers.
type Progress struct {
	Total     int
	Minted    int
	Rendered  int
	Skipped   int
	Chunks    int
	StartedAt time.Time
}

type Report struct {
	Progress
	Elapsed       time.Duration
	Percent       float64
	Rate          float64 // tokens per second
	RateAvailable bool
	ETA           time.Duration
	ETAAvailable  bool
}

func NewProgress(total int, startedAt time.Time) Progress {
	return Progress{Total: total, StartedAt: startedAt}
}

func (p Progress) Report(now time.Time) Report {
	r := Report{Progress: p, Elapsed: now.Sub(p.StartedAt)}
	if r.Elapsed < 0 {
		r.Elapsed = 0
	}
	if p.Total > 0 {
		r.Percent = float64(p.Minted) / float64(p.Total) * 100
	}
	if r.Elapsed > 0 {
		r.Rate = float64(p.Minted) / r.Elapsed.Seconds()
		r.RateAvailable = true
	}
	if r.Rate > 0 {
		remaining := float64(p.Total-p.Minted) / r.Rate
		r.ETA = time.Duration(remaining * float64(time.Second))
		r.ETAAvailable = true
	}
	return r
}

// String renders the one-line progress text printed by the CLI.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Progress: %s/%s (%.1f%%)", humanize.Comma(int64(r.Minted)), humanize.Comma(int64(r.Total)), r.Percent)
	if r.RateAvailable {
		fmt.Fprintf(&b, " - Rate: %.0f/sec", r.Rate)
	} else {
		b.WriteString(" - Rate: n/a")
	}
	if r.ETAAvailable {
		b.WriteString(" - ETA: " + FormatDuration(r.ETA))
	} else {
		b.WriteString(" - ETA: calculating...")
	}
	if r.Rendered > 0 {
		b.WriteString(" | Images: " + humanize.Comma(int64(r.Rendered)))
	}
	if r.Skipped > 0 {
		b.WriteString(" | Skipped: " + humanize.Comma(int64(r.Skipped)))
	}
	return b.String()
}

// FormatDuration prints seconds below a minute, minutes below an hour and hours above.
func FormatDuration(d time.Duration) string {
	s := d.Seconds()
	switch {
	case s < 60:
		return fmt.Sprintf("%.1fs", s)
	case s < 3600:
		return fmt.Sprintf("%.1fm", s/60)
	default:
		return fmt.Sprintf("%.1fh", s/3600)
	}
}
