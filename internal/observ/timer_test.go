package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	tm.End(42, "ignored")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("parse/file", time.Millisecond)
		}()
	}
	wg.Wait()

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Note != "3 files" {
		t.Errorf("note = %q", rep.Phases[0].Note)
	}
	sum := rep.Phases[1]
	if sum.Count != 4 || sum.DurationMS != 4 {
		t.Errorf("summed phase = %+v, want count 4 and 4ms", sum)
	}
	if rep.TotalMS != rep.Phases[0].DurationMS {
		t.Errorf("total %.3f includes summed phases", rep.TotalMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("walk"), "")
	tm.Add("parse/file", 2*time.Millisecond)

	out := tm.Summary()
	for _, want := range []string{"timings:\n", "  walk ", "(sum of 1)", "  total "} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	rep := NewTimer().Report()
	if rep.TotalMS != 0 || rep.Phases != nil {
		t.Errorf("empty report = %+v", rep)
	}
}
