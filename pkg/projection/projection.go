// Package projection derives per-audience views of the request
// collection. Filters are pure predicates; results are recomputed on
// every refresh, newest request first.
package projection

import (
	"github.com/civic-lab/partes/pkg/domain/model"
	"github.com/civic-lab/partes/pkg/domain/types"
)

// Filter selects requests for a view
type Filter func(*model.Request) bool

// All matches every request
func All(*model.Request) bool { return true }

// AwaitingRouting matches requests not yet routed to a unit
func AwaitingRouting(r *model.Request) bool { return r.AssignedUnit == "" }

// Routed matches requests already assigned to some unit
func Routed(r *model.Request) bool { return r.AssignedUnit != "" }

// ByUnit matches requests assigned to exactly the given unit
func ByUnit(unit types.UnitID) Filter {
	return func(r *model.Request) bool {
		return r.AssignedUnit == unit
	}
}

// Apply returns the matching requests in reverse creation order, so
// views show the most recent submission first
func Apply(reqs []*model.Request, filter Filter) []*model.Request {
	var matched []*model.Request
	for _, r := range reqs {
		if filter(r) {
			matched = append(matched, r)
		}
	}

	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched
}
