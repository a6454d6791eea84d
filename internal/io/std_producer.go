package io

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ecopia-map/terrain_tiler/internal/tiler"
)

type StandardProducer struct {
	basePath  string
	options   *tiler.TilerOptions
	submitted atomic.Int64
}

func NewStandardProducer(basePath string, options *tiler.TilerOptions) *StandardProducer {
	return &StandardProducer{
		basePath: basePath,
		options:  options,
	}
}

// Submits one WorkUnit per tile to the provided work channel, in the given order.
// Stops early when ctx is cancelled. Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(ctx context.Context, work chan *WorkUnit, wg *sync.WaitGroup, tiles []string) {
	defer wg.Done()
	defer close(work)

	for _, tilePath := range tiles {
		unit := &WorkUnit{
			TilePath: tilePath,
			BasePath: p.basePath,
			Opts:     p.options,
		}

		// counted before the send so that no consumer can complete a unit not yet counted,
		// and uncounted when the unit is dropped
		p.submitted.Add(1)
		select {
		case <-ctx.Done():
			p.submitted.Add(-1)
			return
		case work <- unit:
		}
	}
}

// Submitted is the number of WorkUnits handed to consumers so far
func (p *StandardProducer) Submitted() int {
	return int(p.submitted.Load())
}
