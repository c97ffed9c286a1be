package storage

import (
	"context"

	"github.com/rgehrsitz/njtax/internal/domain"
)

// OverviewWriter publishes a state whose towns carry built overviews
type OverviewWriter interface {
	WriteOverviews(ctx context.Context, state *domain.StateData) error
	Close() error
}
