package catalog

import (
	"fmt"
	"strings"

	"github.com/aretw0/formflow/pkg/domain"
)

// MaxHops bounds the longest path from a flow's start route to a terminal route.
const MaxHops = 10

// Validate checks catalog integrity.
// Returns an AggregateError with every failure found.
func Validate(flows []domain.Flow) error {
	if len(flows) == 0 {
		return &AggregateError{Errors: []error{&ValidationError{Key: "flows", Reason: "at least one flow is required"}}}
	}

	var errs []error
	seen := make(map[string]bool, len(flows))
	for _, f := range flows {
		fail := func(key, reason string) {
			errs = append(errs, &ValidationError{Flow: f.ID, Key: key, Reason: reason})
		}

		if strings.TrimSpace(f.ID) == "" {
			fail("id", "required")
		} else if seen[f.ID] {
			fail("id", "duplicate flow id")
		}
		seen[f.ID] = true

		if !f.StartRoute.Valid() || f.StartRoute == domain.RouteHome || f.StartRoute == domain.RouteError {
			fail("start", fmt.Sprintf("%s cannot start a flow", f.StartRoute))
		}

		for from, to := range f.Transitions {
			if !from.Valid() || from == domain.RouteHome || from == domain.RouteError {
				fail("transitions", fmt.Sprintf("%s cannot have outgoing transitions", from))
			}
			for _, r := range to {
				if !r.Valid() || r == domain.RouteHome || r == domain.RouteError {
					fail("transitions."+from.String(), fmt.Sprintf("%s is not a valid target", r))
				}
			}
		}

		if err := Terminates(f, MaxHops); err != nil {
			fail("transitions", err.Error())
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Terminates reports whether every path from the flow's start route reaches a
// terminal route within maxHops transitions.
func Terminates(f domain.Flow, maxHops int) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[domain.Route]int)
	depth := make(map[domain.Route]int) // longest path to a terminal route

	var visit func(r domain.Route, path []domain.Route) error
	visit = func(r domain.Route, path []domain.Route) error {
		switch state[r] {
		case visiting:
			return fmt.Errorf("cycle detected: %s", formatPath(append(path, r)))
		case done:
			return nil
		}
		state[r] = visiting
		longest := 0
		for _, next := range f.Transitions[r] {
			if err := visit(next, append(path, r)); err != nil {
				return err
			}
			if d := depth[next] + 1; d > longest {
				longest = d
			}
		}
		state[r] = done
		depth[r] = longest
		return nil
	}

	if err := visit(f.StartRoute, nil); err != nil {
		return err
	}
	if depth[f.StartRoute] > maxHops {
		return fmt.Errorf("longest path has %d hops, limit is %d", depth[f.StartRoute], maxHops)
	}
	return nil
}

func formatPath(path []domain.Route) string {
	names := make([]string, len(path))
	for i, r := range path {
		names[i] = r.String()
	}
	return strings.Join(names, " -> ")
}
