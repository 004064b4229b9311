package build

import (
	"fmt"
	"strings"

	"github.com/onkernel/hdimage/lib/hdimage"
	"github.com/samber/lo"
)

// dependencies returns the names of other targets t reads from, in partition order
func dependencies(t Target, byName map[string]int) []string {
	deps := lo.FilterMap(t.Image.Partitions, func(p hdimage.Partition, _ int) (string, bool) {
		_, ok := byName[p.Source]
		return p.Source, ok
	})
	return lo.Uniq(deps)
}

// levels groups targets so that every target only depends on targets in
// earlier levels. Order within a level follows the input order.
func levels(targets []Target) ([][]Target, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	byName := make(map[string]int, len(targets))
	for i, t := range targets {
		byName[t.Image.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(targets))
	depth := make([]int, len(targets))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(append(path, targets[i].Image.Name), " -> "))
		}
		state[i] = visiting
		path = append(path, targets[i].Image.Name)

		for _, dep := range dependencies(targets[i], byName) {
			j := byName[dep]
			if err := visit(j, path); err != nil {
				return err
			}
			depth[i] = max(depth[i], depth[j]+1)
		}
		state[i] = done
		return nil
	}

	for i := range targets {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}

	out := make([][]Target, lo.Max(depth)+1)
	for i, t := range targets {
		out[depth[i]] = append(out[depth[i]], t)
	}
	return out, nil
}

// Select returns the named targets plus everything they depend on, in input order.
// An empty names list selects all targets.
func Select(targets []Target, names []string) ([]Target, error) {
	if len(names) == 0 {
		return targets, nil
	}

	byName := make(map[string]int, len(targets))
	for i, t := range targets {
		byName[t.Image.Name] = i
	}

	selected := make(map[int]bool)
	var mark func(i int)
	mark = func(i int) {
		if selected[i] {
			return
		}
		selected[i] = true
		for _, dep := range dependencies(targets[i], byName) {
			mark(byName[dep])
		}
	}

	for _, name := range names {
		i, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownImage, name)
		}
		mark(i)
	}

	return lo.Filter(targets, func(_ Target, i int) bool { return selected[i] }), nil
}
