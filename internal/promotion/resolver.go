// Package promotion resolves a deployment pipeline's promotion paths into a
// deterministic linear environment visiting order.
//
// The resolver is pure and stateless; it may be invoked concurrently for
// independent pipelines.
package promotion

import (
	"sort"
	"strings"

	"github.com/rashadism/choreosync/models"
)

// preferredOrder is the fixed environment preference list. Names matching it
// (case-sensitively, against canonical names) sort before unlisted names at
// the same graph level.
var preferredOrder = []string{"Development", "Staging", "Production"}

// ResolveOrder computes the environment visiting order for one pipeline.
//
// paths is the pipeline's declared promotion topology; environments is the
// namespace's declared environment names in platform order, used both to
// normalize path node casing and to complete the order.
//
// The order is built by Kahn's algorithm over the promotion graph, sorted by
// longest-path level and, within a level, by the fixed preference list then
// alphabetically. Nodes held above zero in-degree by a cycle never enter the
// topological result; they are returned in excluded so the caller can surface
// the condition, and any declared environments missing from the result
// (cyclic ones included) are appended in input order.
func ResolveOrder(paths []models.PromotionPath, environments []string) (order, excluded []string) {
	canonical := canonicalNames(environments)

	// Adjacency and in-degree over normalized node names, insertion-ordered.
	var nodes []string
	adjacency := make(map[string][]string)
	inDegree := make(map[string]int)
	seenEdge := make(map[[2]string]bool)

	addNode := func(name string) string {
		name = canonical.resolve(name)
		if _, ok := inDegree[name]; !ok {
			inDegree[name] = 0
			nodes = append(nodes, name)
		}
		return name
	}

	for _, path := range paths {
		source := addNode(path.Source)
		for _, target := range path.Targets {
			name := addNode(target.Name)
			edge := [2]string{source, name}
			if seenEdge[edge] {
				continue
			}
			seenEdge[edge] = true
			adjacency[source] = append(adjacency[source], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm. The queue seeds in node insertion order so the raw
	// topological result is stable before the level sort below.
	remaining := make(map[string]int, len(inDegree))
	for name, degree := range inDegree {
		remaining[name] = degree
	}

	var queue, topo []string
	for _, name := range nodes {
		if remaining[name] == 0 {
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		topo = append(topo, node)
		for _, neighbor := range adjacency[node] {
			remaining[neighbor]--
			if remaining[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	// Longest-path level per node, propagated in topological order.
	levels := make(map[string]int, len(topo))
	for _, node := range topo {
		for _, neighbor := range adjacency[node] {
			if next := levels[node] + 1; next > levels[neighbor] {
				levels[neighbor] = next
			}
		}
	}

	sorted := append([]string(nil), topo...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if levels[a] != levels[b] {
			return levels[a] < levels[b]
		}
		ai, aPreferred := preferenceIndex(a)
		bi, bPreferred := preferenceIndex(b)
		switch {
		case aPreferred && bPreferred:
			return ai < bi
		case aPreferred:
			return true
		case bPreferred:
			return false
		}
		return a < b
	})

	ordered := make(map[string]bool, len(sorted))
	for _, name := range sorted {
		ordered[name] = true
	}

	// Cycle participants: graph nodes Kahn's algorithm never released.
	for _, name := range nodes {
		if !ordered[name] {
			excluded = append(excluded, name)
		}
	}

	// Declared environments absent from the result, cyclic ones included,
	// complete the order in input order.
	order = sorted
	for _, name := range environments {
		if !ordered[name] {
			order = append(order, name)
			ordered[name] = true
		}
	}

	return order, excluded
}

// TargetsFor aggregates an environment's outgoing promotion edges across the
// given paths. Sources match case-insensitively; duplicate targets keep their
// first occurrence. Returns nil when the environment promotes nowhere.
func TargetsFor(paths []models.PromotionPath, environment string) []models.PromotionTarget {
	var targets []models.PromotionTarget
	seen := make(map[string]bool)

	for _, path := range paths {
		if !strings.EqualFold(path.Source, environment) {
			continue
		}
		for _, target := range path.Targets {
			key := strings.ToLower(target.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			targets = append(targets, target)
		}
	}
	return targets
}

// canonicalCasing maps lowercased environment names to the casing declared
// by the platform.
type canonicalCasing map[string]string

func canonicalNames(environments []string) canonicalCasing {
	canonical := make(canonicalCasing, len(environments))
	for _, name := range environments {
		key := strings.ToLower(name)
		if _, ok := canonical[key]; !ok {
			canonical[key] = name
		}
	}
	return canonical
}

// resolve maps a path node name to its canonical casing. Names absent from
// the declared environment set pass through unchanged, best effort.
func (c canonicalCasing) resolve(name string) string {
	if canonical, ok := c[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// preferenceIndex returns a name's position in the preference list.
func preferenceIndex(name string) (int, bool) {
	for i, preferred := range preferredOrder {
		if name == preferred {
			return i, true
		}
	}
	return 0, false
}
