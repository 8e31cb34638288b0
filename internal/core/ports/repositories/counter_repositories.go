package repositories

import "context"

// SequenceGenerator issues transaction number sequences.
type SequenceGenerator interface {
	// NextSequence atomically increments the named counter and returns the new value.
	NextSequence(ctx context.Context, counterName string) (int64, error)
}
