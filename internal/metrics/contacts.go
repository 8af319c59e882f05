package metrics

import (
	"math"

	"github.com/san-kum/worb/internal/world"
)

type MaxPenetration struct {
	name string
	max  float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(w *world.World) {
	reg := w.Contacts()
	for i := 0; i < reg.Count(); i++ {
		m.max = math.Max(m.max, reg.At(i).Penetration)
	}
}

func (m *MaxPenetration) Value() float64 {
	return m.max
}

func (m *MaxPenetration) Reset() {
	m.max = 0
}

// RestingFraction reports the fraction of bodies asleep at the end of
// the run, a proxy for how well the system settles.
type RestingFraction struct {
	name     string
	fraction float64
}

func NewRestingFraction() *RestingFraction {
	return &RestingFraction{name: "resting_fraction"}
}

func (r *RestingFraction) Name() string { return r.name }

func (r *RestingFraction) Observe(w *world.World) {
	bodies := w.Bodies()
	if len(bodies) == 0 {
		r.fraction = 0
		return
	}

	asleep := 0
	for _, b := range bodies {
		if !b.Active {
			asleep++
		}
	}
	r.fraction = float64(asleep) / float64(len(bodies))
}

func (r *RestingFraction) Value() float64 {
	return r.fraction
}

func (r *RestingFraction) Reset() {
	r.fraction = 0
}
