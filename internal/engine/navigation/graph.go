// Package navigation holds the node graph of a space and the scheduler that
// glides the camera from one node to another.
package navigation

import "github.com/Faultbox/walkthrough/pkg/space"

// Graph indexes nodes by id. Adjacency is directional, exactly as declared in
// each node's ConnectedTo list.
type Graph struct {
	nodes []space.Node
	index map[string]int
}

// NewGraph copies nodes into a graph. Later duplicates of an id are ignored.
func NewGraph(nodes []space.Node) *Graph {
	g := &Graph{
		nodes: make([]space.Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (*space.Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// At returns the node at declaration index i.
func (g *Graph) At(i int) *space.Node {
	return &g.nodes[i]
}

// Nodes returns a copy of all nodes in declaration order.
func (g *Graph) Nodes() []space.Node {
	out := make([]space.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Next returns the first connection of a node, if it resolves.
func (g *Graph) Next(id string) (*space.Node, bool) {
	n, ok := g.Node(id)
	if !ok || len(n.ConnectedTo) == 0 {
		return nil, false
	}
	return g.Node(n.ConnectedTo[0])
}

// Previous returns the last connection of a node, if it resolves.
func (g *Graph) Previous(id string) (*space.Node, bool) {
	n, ok := g.Node(id)
	if !ok || len(n.ConnectedTo) == 0 {
		return nil, false
	}
	return g.Node(n.ConnectedTo[len(n.ConnectedTo)-1])
}

// Neighbors returns the resolvable connections of a node in declared order.
func (g *Graph) Neighbors(id string) []*space.Node {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	return g.Resolve(n.ConnectedTo)
}

// Resolve maps ids to nodes, skipping unknown ids.
func (g *Graph) Resolve(ids []string) []*space.Node {
	out := make([]*space.Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// NodesWithTag returns nodes carrying tag, in declaration order.
func (g *Graph) NodesWithTag(tag string) []*space.Node {
	var out []*space.Node
	for i := range g.nodes {
		if g.nodes[i].HasTag(tag) {
			out = append(out, &g.nodes[i])
		}
	}
	return out
}

// NodesOnFloor returns nodes on the given floor, in declaration order.
func (g *Graph) NodesOnFloor(floor int) []*space.Node {
	var out []*space.Node
	for i := range g.nodes {
		if g.nodes[i].Floor == floor {
			out = append(out, &g.nodes[i])
		}
	}
	return out
}
