// Package proximity builds the spirit-trail connection graph: which pairs of tracked
// agents are close enough to be linked.
//
// The pair scan is O(n²). Active agent counts are in the tens, so this is a documented
// scaling limit rather than a bug; a spatial grid would be needed for thousands.
package proximity

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/geom"
)

// Agent is a tracked position supplied by the host application. The renderer treats the
// slice it receives as a read-only snapshot for the frame.
type Agent struct {
	ID       string
	Position r3.Vec
	Active   bool
}

// Connection is an undirected link between two agents. A is always the agent that appears
// first in the snapshot, so each unordered pair is reported once.
type Connection struct {
	A, B       string
	Start, End r3.Vec
	Distance   float64
}

// Build returns every unordered pair of active agents within maxDistance of each other.
// Agents with non-finite positions are skipped.
func Build(agents []Agent, maxDistance float64) []Connection {
	return appendConnections(nil, agents, maxDistance)
}

func appendConnections(dst []Connection, agents []Agent, maxDistance float64) []Connection {
	for i := 0; i < len(agents); i++ {
		a := &agents[i]
		if !usable(a) {
			continue
		}
		for j := i + 1; j < len(agents); j++ {
			b := &agents[j]
			if !usable(b) || a.ID == b.ID {
				continue
			}
			d := geom.Distance(a.Position, b.Position)
			if d <= maxDistance {
				dst = append(dst, Connection{
					A:        a.ID,
					B:        b.ID,
					Start:    a.Position,
					End:      b.Position,
					Distance: d,
				})
			}
		}
	}
	return dst
}

func usable(a *Agent) bool {
	return a.Active && geom.Finite(a.Position)
}

// Graph caches the connection set and only rebuilds it when the agent set changes or an
// agent moves further than moveEpsilon since the last build.
type Graph struct {
	maxDistance float64
	moveEpsilon float64

	connections []Connection
	built       map[string]r3.Vec // positions at last build, active finite agents only
	skipped     int
	dirty       bool
	logger      *slog.Logger
}

// NewGraph creates a graph with the given connection radius.
func NewGraph(maxDistance, moveEpsilon float64) *Graph {
	return &Graph{
		maxDistance: maxDistance,
		moveEpsilon: moveEpsilon,
		built:       make(map[string]r3.Vec),
		dirty:       true,
		logger:      slog.Default(),
	}
}

// SetMaxDistance changes the connection radius and forces a rebuild.
func (g *Graph) SetMaxDistance(d float64) {
	if d != g.maxDistance {
		g.maxDistance = d
		g.dirty = true
	}
}

// MaxDistance returns the connection radius.
func (g *Graph) MaxDistance() float64 {
	return g.maxDistance
}

// Invalidate forces a rebuild on the next Update.
func (g *Graph) Invalidate() {
	g.dirty = true
}

// Update recomputes the connections if the snapshot differs materially from the last
// build. It returns the current connections and whether they were rebuilt.
func (g *Graph) Update(agents []Agent) ([]Connection, bool) {
	if !g.dirty && !g.changed(agents) {
		return g.connections, false
	}

	g.connections = appendConnections(g.connections[:0], agents, g.maxDistance)

	clear(g.built)
	skipped := 0
	for i := range agents {
		a := &agents[i]
		if !a.Active {
			continue
		}
		if !geom.Finite(a.Position) {
			skipped++
			continue
		}
		g.built[a.ID] = a.Position
	}
	if skipped > 0 && skipped != g.skipped {
		g.logger.Debug("skipping agents with non-finite positions", "count", skipped)
	}
	g.skipped = skipped
	g.dirty = false
	return g.connections, true
}

// Connections returns the connections from the last build.
func (g *Graph) Connections() []Connection {
	return g.connections
}

// Skipped returns how many active agents were skipped for bad positions at the last build.
func (g *Graph) Skipped() int {
	return g.skipped
}

func (g *Graph) changed(agents []Agent) bool {
	n := 0
	for i := range agents {
		a := &agents[i]
		if !usable(a) {
			continue
		}
		n++
		prev, ok := g.built[a.ID]
		if !ok {
			return true
		}
		if geom.Distance(prev, a.Position) > g.moveEpsilon {
			return true
		}
	}
	return n != len(g.built)
}
