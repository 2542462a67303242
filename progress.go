package main

import (
	"math"
	"os"

	"github.com/pterm/pterm"

	"github.com/regginator/omniwordlist/generator"
)

// progress draws a pterm progress bar on stderr from generator stats.
// A nil *progress is a no-op, used when the total is unknown or too big
// for the bar.
type progress struct {
	bar  *pterm.ProgressbarPrinter
	last uint64
}

func startProgress(total, done uint64) *progress {
	if noProgress || total == 0 || total > math.MaxInt || done > total {
		return nil
	}
	bar, err := pterm.DefaultProgressbar.
		WithWriter(os.Stderr).
		WithTotal(int(total)).
		WithTitle("Progress").
		WithShowCount(true).
		WithShowElapsedTime(true).
		WithShowPercentage(true).
		Start()
	if err != nil {
		return nil
	}
	// Actually start the progressbar at the index it will be at
	if done > 0 {
		bar.Add(int(done))
	}
	return &progress{bar: bar, last: done}
}

func (p *progress) update(stats generator.Stats) {
	if p == nil || p.bar == nil || stats.Generated <= p.last {
		return
	}
	p.bar.Add(int(stats.Generated - p.last))
	p.last = stats.Generated
}

func (p *progress) stop() {
	if p == nil || p.bar == nil {
		return
	}
	_, err := p.bar.Stop()
	_ = err
	p.bar = nil
}
