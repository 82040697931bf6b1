// Package branch holds the fixed route-to-branch taxonomy of the LIRR.
package branch

import (
	"sort"

	"github.com/jusunglee/lirr-go/internal/models"
)

// Branch is a named service line with its display colors
type Branch struct {
	RouteID string
	Name    string
	Colors  models.BranchColors
}

// Registry maps route ids to branches. It is never mutated after construction.
type Registry struct {
	byRoute map[string]Branch
}

// NewRegistry builds a registry from the given branches
func NewRegistry(branches []Branch) *Registry {
	r := &Registry{byRoute: make(map[string]Branch, len(branches))}
	for _, b := range branches {
		r.byRoute[b.RouteID] = b
	}
	return r
}

// Lookup returns the branch for a route id. Empty ids never match.
func (r *Registry) Lookup(routeID string) (Branch, bool) {
	if r == nil || routeID == "" {
		return Branch{}, false
	}
	b, ok := r.byRoute[routeID]
	return b, ok
}

// Colors returns branch name -> display colors
func (r *Registry) Colors() map[string]models.BranchColors {
	out := make(map[string]models.BranchColors, len(r.byRoute))
	for _, b := range r.byRoute {
		out[b.Name] = b.Colors
	}
	return out
}

// Names returns all branch names sorted alphabetically
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byRoute))
	for _, b := range r.byRoute {
		names = append(names, b.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered branches
func (r *Registry) Len() int {
	return len(r.byRoute)
}

// LIRR returns the registry for the Long Island Rail Road.
// Colors come from the static schedule's routes.txt.
func LIRR() *Registry {
	return NewRegistry([]Branch{
		{RouteID: "1", Name: "Babylon", Colors: models.BranchColors{Background: "#00985F", Text: "#FFFFFF"}},
		{RouteID: "2", Name: "Hempstead", Colors: models.BranchColors{Background: "#CE8E00", Text: "#121212"}},
		{RouteID: "3", Name: "Oyster Bay", Colors: models.BranchColors{Background: "#00AF3F", Text: "#FFFFFF"}},
		{RouteID: "4", Name: "Ronkonkoma", Colors: models.BranchColors{Background: "#A626AA", Text: "#FFFFFF"}},
		{RouteID: "5", Name: "Montauk", Colors: models.BranchColors{Background: "#00B2A9", Text: "#121212"}},
		{RouteID: "6", Name: "Long Beach", Colors: models.BranchColors{Background: "#FF6319", Text: "#FFFFFF"}},
		{RouteID: "7", Name: "Far Rockaway", Colors: models.BranchColors{Background: "#6E3219", Text: "#FFFFFF"}},
		{RouteID: "8", Name: "West Hempstead", Colors: models.BranchColors{Background: "#00A1DE", Text: "#121212"}},
		{RouteID: "9", Name: "Port Washington", Colors: models.BranchColors{Background: "#C60C30", Text: "#FFFFFF"}},
		{RouteID: "10", Name: "Port Jefferson", Colors: models.BranchColors{Background: "#006EC7", Text: "#FFFFFF"}},
		{RouteID: "11", Name: "Belmont Park", Colors: models.BranchColors{Background: "#60269E", Text: "#FFFFFF"}},
		{RouteID: "12", Name: "City Terminal Zone", Colors: models.BranchColors{Background: "#4D5357", Text: "#FFFFFF"}},
		{RouteID: "13", Name: "Greenport", Colors: models.BranchColors{Background: "#A626AA", Text: "#FFFFFF"}},
	})
}
