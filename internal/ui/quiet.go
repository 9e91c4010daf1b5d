package ui

import "github.com/jadrian/tmcp/internal/stats"

// quietPresenter consumes events but produces no output.
type quietPresenter struct {
	stats *stats.Collector
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for range events {
		// Counters are maintained by the engine on the collector;
		// presenters only read from it, never write.
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
