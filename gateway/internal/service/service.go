// Package service holds what the page services share.
package service

import (
	"context"
	"time"
)

// Mutation is one completed (or partially completed) write.
type Mutation struct {
	Resource string
	Action   string
	Key      string
	Partial  bool
	Detail   string
}

// Recorder receives mutations for auditing.
type Recorder interface {
	Record(ctx context.Context, m Mutation)
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Mutation) {}

// Clock returns the current local time. Services take it as a field so the
// day boundary can be pinned in tests.
type Clock func() time.Time
