package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one analysis phase.
// Summed phases collect per-file durations from parallel workers; they
// overlap the wall-clock phases and are left out of the total.
type Phase struct {
	Name   string
	Start  time.Time
	Dur    time.Duration
	Note   string
	Count  int
	Summed bool
}

// Timer tracks the execution time of analysis phases. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a wall-clock phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Add accumulates d into the summed phase called name.
func (t *Timer) Add(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.phases {
		if p := &t.phases[i]; p.Summed && p.Name == name {
			p.Dur += d
			p.Count++
			return
		}
	}
	t.phases = append(t.phases, Phase{Name: name, Dur: d, Count: 1, Summed: true})
}

// Summary renders the report as an aligned table.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-20s %9.2f ms", p.Name, p.DurationMS)
		if p.Count > 0 {
			fmt.Fprintf(&b, "  (sum of %d)", p.Count)
		}
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %9.2f ms\n", "total", report.TotalMS)
	return b.String()
}

// PhaseReport is the serializable form of a Phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Count      int     `json:"count,omitempty"`
}

// Report is the serializable form of Summary.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		if !p.Summed {
			total += p.Dur
		}
		report.Phases[i] = PhaseReport{
			Name:       p.Name,
			DurationMS: durationToMillis(p.Dur),
			Note:       p.Note,
			Count:      p.Count,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
