package startup

import (
	"fmt"

	"github.com/Iron-Ham/finboard/internal/errors"
)

// resolveOrder computes the execution order for steps registered in
// registration order. Resolution runs in passes: in each pass, every
// unresolved step whose dependencies were all resolved by an earlier pass
// becomes eligible, and eligible steps keep their registration order.
func resolveOrder(steps map[string]*Step, registration []string) ([]string, error) {
	var missing []string
	for _, id := range registration {
		for _, dep := range steps[id].Dependencies {
			if _, ok := steps[dep]; !ok {
				missing = append(missing, fmt.Sprintf("%s -> %s", id, dep))
			}
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewStartupError("cannot resolve step order", errors.ErrMissingDependency).
			WithDetails(missing...)
	}

	resolved := make(map[string]bool, len(registration))
	order := make([]string, 0, len(registration))
	remaining := append([]string(nil), registration...)

	for len(remaining) > 0 {
		var ready, blocked []string
		for _, id := range remaining {
			if dependenciesResolved(steps[id], resolved) {
				ready = append(ready, id)
			} else {
				blocked = append(blocked, id)
			}
		}
		if len(ready) == 0 {
			return nil, errors.NewStartupError("cannot resolve step order", errors.ErrDependencyCycle).
				WithSteps(blocked...)
		}
		for _, id := range ready {
			resolved[id] = true
		}
		order = append(order, ready...)
		remaining = blocked
	}
	return order, nil
}

func dependenciesResolved(step *Step, resolved map[string]bool) bool {
	for _, dep := range step.Dependencies {
		if !resolved[dep] {
			return false
		}
	}
	return true
}
