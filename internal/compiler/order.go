package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/zonedbm/internal/ir"
)

// CycleError reports derived zones that depend on each other.
type CycleError struct {
	Path []string `json:"path"` // ["a", "b", "a"]
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("zone dependency cycle: %s", strings.Join(e.Path, " → "))
}

// OrderZones returns specs reordered so that every derived zone comes after
// both of its operands. Zones keep their declaration order wherever the
// dependencies allow it.
//
// Specs should pass ValidateZones first; operands naming unknown zones are
// ignored here and left for evaluation to reject. The first dependency cycle
// found is returned as a *CycleError.
func OrderZones(specs []ir.ZoneSpec) ([]ir.ZoneSpec, error) {
	graph, names := buildZoneGraph(specs)

	for _, scc := range tarjanSCC(graph, names) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			return nil, &CycleError{Path: reconstructCyclePath(scc, graph)}
		}
	}

	byName := make(map[string]ir.ZoneSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	out := make([]ir.ZoneSpec, 0, len(specs))
	for _, scc := range tarjanSCC(graph, names) {
		out = append(out, byName[scc[0]])
	}
	return out, nil
}

// zoneGraph maps a zone name to the zones it is built from.
type zoneGraph map[string][]string

// buildZoneGraph returns the operand graph and the zone names in declaration
// order.
func buildZoneGraph(specs []ir.ZoneSpec) (zoneGraph, []string) {
	graph := make(zoneGraph, len(specs))
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		if _, dup := graph[s.Name]; dup {
			continue
		}
		graph[s.Name] = []string{}
		names = append(names, s.Name)
	}
	for _, s := range specs {
		for _, op := range s.Of {
			if _, known := graph[op]; known {
				graph[s.Name] = append(graph[s.Name], op)
			}
		}
	}
	return graph, names
}

func hasSelfLoop(node string, graph zoneGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm,
// starting from nodes in the given order.
//
// Components come out dependencies-first: a component is emitted only after
// every component reachable from it.
func tarjanSCC(graph zoneGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// reconstructCyclePath walks edges inside an SCC until it returns to the
// first member.
func reconstructCyclePath(scc []string, graph zoneGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	start := scc[len(scc)-1]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
