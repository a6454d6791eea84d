package io

import (
	"context"
	"sync"
)

type Producer interface {
	Produce(ctx context.Context, work chan *WorkUnit, wg *sync.WaitGroup, tiles []string)
	Submitted() int
}

type Consumer interface {
	Consume(ctx context.Context, workchan chan *WorkUnit, results chan<- *Result, waitGroup *sync.WaitGroup)
}
