package tiler

import "context"

type ITiler interface {
	RunTiler(ctx context.Context, opts *TilerOptions) error
}

// State of a pipeline run
type State string

const (
	StateIdle        State = "IDLE"
	StateDiscovering State = "DISCOVERING"
	StateProcessing  State = "PROCESSING"
	StateFinalizing  State = "FINALIZING"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
