package metrics

import (
	"math"

	"github.com/san-kum/worb/internal/quat"
	"github.com/san-kum/worb/internal/world"
)

type MomentumDrift struct {
	name     string
	initial  quat.Quaternion
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(w *world.World) {
	p := w.TotalLinearMomentum

	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	drift := p.Sub(m.initial).ImNorm()
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = quat.Quaternion{}
	m.maxDrift = 0
	m.samples = 0
}
