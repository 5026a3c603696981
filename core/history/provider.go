// Package history defines the boundary to the historical observation store.
// The engine only depends on the Provider interface; implementations live
// under infra/history or in tests.
package history

import (
	"context"

	"github.com/brandsignal/foresight/core/model"
)

// Provider returns the observation rows recorded for a domain, oldest first.
// An empty slice is a valid answer; errors indicate the store itself failed.
type Provider interface {
	Query(ctx context.Context, domain string) ([]model.Observation, error)
}
