package ui

import (
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// StatsLoadedMsg carries the result of one statistics fetch. Gen is the
// screen generation the fetch was started for.
type StatsLoadedMsg struct {
	Gen   uint64
	Stats *types.TokenStatistics
	Err   error
}

// ChartLoadedMsg carries price history for one range.
type ChartLoadedMsg struct {
	Gen    uint64
	Range  types.TimeRange
	Points []types.PricePoint
	Err    error
}

// HoldersLoadedMsg carries the holder table of one enumeration.
type HoldersLoadedMsg struct {
	Gen   uint64
	Table *types.HolderTable
	Err   error
}

// ExportedMsg reports a finished holder export.
type ExportedMsg struct {
	Path string
	Err  error
}

// Route represents different screens in the application
type Route int

const (
	RouteOverview Route = iota
	RouteHolders
)

// Routes lists the screens in tab order.
var Routes = []Route{RouteOverview, RouteHolders}

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteOverview:
		return "overview"
	case RouteHolders:
		return "holders"
	default:
		return "unknown"
	}
}

// Title is the tab label of the route.
func (r Route) Title() string {
	switch r {
	case RouteOverview:
		return "Overview"
	case RouteHolders:
		return "Holders"
	default:
		return "?"
	}
}

// Next returns the following route in tab order, wrapping around.
func (r Route) Next() Route {
	for i, route := range Routes {
		if route == r {
			return Routes[(i+1)%len(Routes)]
		}
	}
	return RouteOverview
}
