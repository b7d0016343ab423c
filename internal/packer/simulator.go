package packer

type simState int

const (
	stateInitializing simState = iota
	stateRelaxing
	stateConverged
	stateMaxIterations
)

// simulator owns the positions and velocities of one Pack call.
type simulator struct {
	bodies     []body
	bounds     Bounds
	cfg        Config
	minRadius  float64
	state      simState
	iterations int
}

func newSimulator(radii []float64, positions []Point, bounds Bounds, cfg Config) *simulator {
	bodies := make([]body, len(radii))
	for i, r := range radii {
		bodies[i] = body{radius: r, position: positions[i]}
	}
	return &simulator{
		bodies:    bodies,
		bounds:    bounds,
		cfg:       cfg,
		minRadius: fallbackRadius(len(radii), bounds, cfg.FallbackDivisor),
		state:     stateInitializing,
	}
}

// run relaxes the layout until it settles or the iteration cap is reached.
func (s *simulator) run() Status {
	s.state = stateRelaxing
	for s.state == stateRelaxing {
		s.step()
	}
	if s.state == stateConverged {
		return StatusConverged
	}
	return StatusMaxIterations
}

// step performs one relaxation iteration. A layout with no overlap and no boundary
// violation is final and is not integrated any further.
func (s *simulator) step() {
	overlapped := resolveCollisions(s.bodies, s.cfg.Padding)
	crossed := applyBoundary(s.bodies, s.bounds, s.cfg.InitialVelocityScale, s.minRadius)
	if !overlapped && !crossed {
		s.state = stateConverged
		return
	}

	s.integrate()
	s.iterations++
	if s.iterations >= s.cfg.MaxIterations {
		s.state = stateMaxIterations
		if s.settled() {
			s.state = stateConverged
		}
	}
}

// settled reports whether the current positions satisfy both constraints. Unlike step it
// leaves velocities alone.
func (s *simulator) settled() bool {
	return !anyOverlap(s.bodies, s.cfg.Padding) && !anyCrossing(s.bodies, s.bounds)
}

func (s *simulator) integrate() {
	center := s.bounds.Center()
	for i := range s.bodies {
		b := &s.bodies[i]
		if !isFinite(b.velocity.X) || !isFinite(b.velocity.Y) {
			b.velocity = Point{}
		}

		b.position.X += b.velocity.X
		b.position.Y += b.velocity.Y
		if !isFinite(b.position.X) || !isFinite(b.position.Y) {
			b.position = center
			b.velocity = Point{}
		}

		b.velocity.X *= s.cfg.Friction
		b.velocity.Y *= s.cfg.Friction
	}
}

// circles pairs the final positions with the input items.
func (s *simulator) circles(items []Item) []Circle {
	out := make([]Circle, len(items))
	for i, item := range items {
		out[i] = Circle{
			Label:    item.Label,
			Weight:   item.Weight,
			Radius:   s.bodies[i].radius,
			Position: s.bodies[i].position,
		}
	}
	return out
}
