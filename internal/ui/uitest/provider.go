// Package uitest provides an in-memory ServiceProvider for screen tests.
package uitest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/ui"
)

// Backend returns canned results and counts invalidations.
type Backend struct {
	mu          sync.Mutex
	StatsResult *types.TokenStatistics
	StatsErr    error
	Table       *types.HolderTable
	TableErr    error
	Points      []types.PricePoint
	ChartErr    error
	Ranges      []types.TimeRange
	invalidated int
}

func (b *Backend) Stats(context.Context) (*types.TokenStatistics, error) {
	return b.StatsResult, b.StatsErr
}

func (b *Backend) Holders(context.Context) (*types.HolderTable, error) {
	return b.Table, b.TableErr
}

func (b *Backend) Chart(_ context.Context, r types.TimeRange) ([]types.PricePoint, error) {
	b.mu.Lock()
	b.Ranges = append(b.Ranges, r)
	b.mu.Unlock()
	return b.Points, b.ChartErr
}

func (b *Backend) Invalidate() {
	b.mu.Lock()
	b.invalidated++
	b.mu.Unlock()
}

// Invalidations returns how often Invalidate ran.
func (b *Backend) Invalidations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.invalidated
}

// Provider wires a Backend into a RealServiceProvider writing exports to dir.
func Provider(b *Backend, dir string) ui.ServiceProvider {
	return ui.NewRealServiceProvider(context.Background(), b, dir, time.Second, zap.NewNop())
}
