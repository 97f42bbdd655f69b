package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/components"
	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/culling"
)

// Culler reports visibility and detail for world positions.
type Culler interface {
	SphereVisible(center r3.Vec, radius float64) bool
	LOD(p r3.Vec) culling.LOD
}

// Instance is one visible wildlife or flora entity, ready to draw.
type Instance struct {
	Position r3.Vec
	Yaw      float64
	Size     float64
	Height   float64
	Creature components.CreatureKind
	Flora    components.FloraKind
	IsFlora  bool
	LOD      culling.LOD
}

// WildlifeStats summarises the last cull.
type WildlifeStats struct {
	Creatures int
	Flora     int
	Visible   int
	ByLOD     [3]int
}

// Wildlife simulates creatures wandering around home points and holds static flora.
type Wildlife struct {
	cfg     config.WildlifeConfig
	world   *ecs.World
	terrain *Terrain
	noise   *Noise
	rng     *rand.Rand
	time    float64

	creatureMapper *ecs.Map5[
		components.Position,
		components.Heading,
		components.Wander,
		components.Creature,
		components.Visibility,
	]
	creatureFilter *ecs.Filter5[
		components.Position,
		components.Heading,
		components.Wander,
		components.Creature,
		components.Visibility,
	]
	floraMapper *ecs.Map3[components.Position, components.Flora, components.Visibility]
	floraFilter *ecs.Filter3[components.Position, components.Flora, components.Visibility]

	instances []Instance
	stats     WildlifeStats
}

// NewWildlife creates a world and populates it over the terrain.
func NewWildlife(cfg config.WildlifeConfig, terrain *Terrain, rng *rand.Rand) *Wildlife {
	world := ecs.NewWorld()
	w := &Wildlife{
		cfg:     cfg,
		world:   world,
		terrain: terrain,
		noise:   NewNoise(rng.Int63()),
		rng:     rng,
		creatureMapper: ecs.NewMap5[
			components.Position,
			components.Heading,
			components.Wander,
			components.Creature,
			components.Visibility,
		](world),
		creatureFilter: ecs.NewFilter5[
			components.Position,
			components.Heading,
			components.Wander,
			components.Creature,
			components.Visibility,
		](world),
		floraMapper: ecs.NewMap3[components.Position, components.Flora, components.Visibility](world),
		floraFilter: ecs.NewFilter3[components.Position, components.Flora, components.Visibility](world),
	}
	w.populate()
	return w
}

func (w *Wildlife) populate() {
	// Keep homes inside the wander radius of the edge so creatures stay over terrain
	extent := math.Max(w.terrain.Size()/2-w.cfg.WanderRadius, 0)

	for i := 0; i < w.cfg.Birds; i++ {
		w.spawnCreature(components.KindBird, extent, w.cfg.BirdSpeed, w.cfg.BirdAltitude, 0.8)
		w.stats.Creatures++
	}
	for i := 0; i < w.cfg.Grazers; i++ {
		w.spawnCreature(components.KindGrazer, extent, w.cfg.GrazerSpeed, 0, 1.4)
		w.stats.Creatures++
	}
	for i := 0; i < w.cfg.Trees; i++ {
		x := (w.rng.Float64()*2 - 1) * w.terrain.Size() / 2
		z := (w.rng.Float64()*2 - 1) * w.terrain.Size() / 2
		pos := &components.Position{Vec: r3.Vec{X: x, Y: w.terrain.HeightAt(x, z), Z: z}}
		flora := &components.Flora{
			Kind:   components.FloraKind(w.rng.Intn(3)),
			Height: 4 + w.rng.Float64()*6,
			Radius: 1 + w.rng.Float64()*1.5,
		}
		if flora.Kind == components.FloraShrub {
			flora.Height *= 0.3
		}
		w.floraMapper.NewEntity(pos, flora, &components.Visibility{})
		w.stats.Flora++
	}
}

func (w *Wildlife) spawnCreature(kind components.CreatureKind, extent, speed, altitude, size float64) ecs.Entity {
	home := r3.Vec{
		X: (w.rng.Float64()*2 - 1) * extent,
		Z: (w.rng.Float64()*2 - 1) * extent,
	}
	home.Y = w.terrain.HeightAt(home.X, home.Z) + altitude

	pos := &components.Position{Vec: home}
	heading := &components.Heading{Yaw: w.rng.Float64() * 2 * math.Pi}
	wander := &components.Wander{
		Home:     home,
		Radius:   w.cfg.WanderRadius,
		Speed:    speed * (0.8 + 0.4*w.rng.Float64()),
		Altitude: altitude,
		Phase:    w.rng.Float64() * 100,
	}
	creature := &components.Creature{Kind: kind, Size: size}
	return w.creatureMapper.NewEntity(pos, heading, wander, creature, &components.Visibility{})
}

// Update advances every creature. Turning follows noise; beyond the wander radius the
// heading is steered back toward home.
func (w *Wildlife) Update(dt float64) {
	w.time += dt
	query := w.creatureFilter.Query()
	for query.Next() {
		pos, heading, wander, _, _ := query.Get()

		turn := w.noise.Signed(wander.Phase, w.time*0.3) * 1.5
		heading.Yaw += turn * dt

		toHome := r3.Sub(wander.Home, pos.Vec)
		toHome.Y = 0
		if d := r3.Norm(toHome); d > wander.Radius {
			want := math.Atan2(toHome.Z, toHome.X)
			heading.Yaw += angleDelta(heading.Yaw, want) * math.Min(1, 2*dt)
		}

		pos.X += math.Cos(heading.Yaw) * wander.Speed * dt
		pos.Z += math.Sin(heading.Yaw) * wander.Speed * dt
		ground := w.terrain.HeightAt(pos.X, pos.Z)
		if wander.Altitude > 0 {
			// Birds bob gently around their cruising height
			pos.Y = ground + wander.Altitude + 1.5*math.Sin(w.time+wander.Phase)
		} else {
			pos.Y = ground
		}
	}
}

// angleDelta returns the signed shortest rotation from a to b.
func angleDelta(a, b float64) float64 {
	d := math.Mod(b-a+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}

// Cull writes visibility and detail into every entity and collects visible instances.
func (w *Wildlife) Cull(c Culler) []Instance {
	w.instances = w.instances[:0]
	w.stats.Visible = 0
	w.stats.ByLOD = [3]int{}

	cq := w.creatureFilter.Query()
	for cq.Next() {
		pos, heading, _, creature, vis := cq.Get()
		w.cullOne(c, pos.Vec, creature.Size, vis)
		if vis.Visible {
			w.instances = append(w.instances, Instance{
				Position: pos.Vec,
				Yaw:      heading.Yaw,
				Size:     creature.Size,
				Creature: creature.Kind,
				LOD:      culling.LOD(vis.Detail),
			})
		}
	}

	fq := w.floraFilter.Query()
	for fq.Next() {
		pos, flora, vis := fq.Get()
		center := pos.Vec
		center.Y += flora.Height / 2
		w.cullOne(c, center, math.Max(flora.Height/2, flora.Radius), vis)
		if vis.Visible {
			w.instances = append(w.instances, Instance{
				Position: pos.Vec,
				Size:     flora.Radius,
				Height:   flora.Height,
				Flora:    flora.Kind,
				IsFlora:  true,
				LOD:      culling.LOD(vis.Detail),
			})
		}
	}
	return w.instances
}

func (w *Wildlife) cullOne(c Culler, center r3.Vec, radius float64, vis *components.Visibility) {
	vis.Visible = c.SphereVisible(center, radius)
	if !vis.Visible {
		return
	}
	lod := c.LOD(center)
	vis.Detail = uint8(lod)
	w.stats.Visible++
	w.stats.ByLOD[lod]++
}

// Instances returns the visible instances from the last Cull.
func (w *Wildlife) Instances() []Instance {
	return w.instances
}

// Stats returns counts from the last Cull.
func (w *Wildlife) Stats() WildlifeStats {
	return w.stats
}

// Creatures calls fn with every creature position, for tests and debug views.
func (w *Wildlife) Creatures(fn func(kind components.CreatureKind, pos, home r3.Vec)) {
	query := w.creatureFilter.Query()
	for query.Next() {
		pos, _, wander, creature, _ := query.Get()
		fn(creature.Kind, pos.Vec, wander.Home)
	}
}
