// Package graph implements Tarjan's strongly-connected-components algorithm
// over a generic string-keyed directed graph. It is shared by the type-
// environment builder's cycle detection (§4.2) and the stratifier's
// precedence-graph analysis (§4.9) -- both need "which nodes are mutually
// reachable" and nothing more exotic.
package graph

// Graph is an adjacency-list directed graph keyed by node name.
type Graph struct {
	edges map[string][]string
	nodes []string // insertion order, for deterministic traversal.
	seen  map[string]bool
}

// New builds an empty graph.
func New() *Graph {
	return &Graph{edges: make(map[string][]string), seen: make(map[string]bool)}
}

// AddNode ensures name is present even if it has no edges.
func (g *Graph) AddNode(name string) {
	if !g.seen[name] {
		g.seen[name] = true
		g.nodes = append(g.nodes, name)
	}
}

// AddEdge records from -> to, adding both endpoints as nodes.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// HasSelfEdge reports whether name has a direct edge to itself.
func (g *Graph) HasSelfEdge(name string) bool {
	for _, to := range g.edges[name] {
		if to == name {
			return true
		}
	}
	return false
}

// Component is one strongly-connected component.
type Component struct {
	Nodes []string
}

// IsRecursive reports whether the component is a non-trivial cycle: more
// than one node, or a single node with a self-edge (§4.9's definition of a
// recursive SCC, reused verbatim by §4.2's cyclic-type detection).
func (c Component) IsRecursive(g *Graph) bool {
	if len(c.Nodes) > 1 {
		return true
	}
	if len(c.Nodes) == 1 {
		return g.HasSelfEdge(c.Nodes[0])
	}
	return false
}

// tarjan holds per-run state for Tarjan's algorithm.
type tarjan struct {
	g        *Graph
	index    map[string]int
	low      map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	result   []Component
}

// SCC computes the strongly-connected components of g using Tarjan's
// algorithm. A component is emitted only after every component its edges
// reach: component i's nodes have edges only to components at index <= i
// (never to a later one). For a graph whose edges run from a dependent to
// what it depends on, as the stratifier's do, this is dependency-first
// order, and the stratifier uses it as is.
func SCC(g *Graph) []Component {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int),
		low:     make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, n := range g.nodes {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}
	return t.result
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.edges[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.low[w] < t.low[v] {
				t.low[v] = t.low[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.low[v] {
				t.low[v] = t.index[w]
			}
		}
	}

	if t.low[v] == t.index[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.result = append(t.result, Component{Nodes: comp})
	}
}
