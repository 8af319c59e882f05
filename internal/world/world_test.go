package world_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/geometry"
	"github.com/san-kum/worb/internal/quat"
	"github.com/san-kum/worb/internal/world"
)

func bodyFor(pos, vel quat.Quaternion) *body.Body {
	b := body.New()
	b.SetState(pos, quat.Scalar(1), vel, quat.Quaternion{})
	return b
}

func addSphere(w *world.World, mass, radius float64, pos, vel quat.Quaternion) *geometry.Sphere {
	b := bodyFor(pos, vel)
	s, err := geometry.NewSphere(b, radius)
	Expect(err).NotTo(HaveOccurred())
	s.SetMass(mass)
	b.Activate()
	Expect(w.Add(s)).To(Succeed())
	return s
}

func addBox(w *world.World, mass, hx, hy, hz float64, pos quat.Quaternion) *geometry.Box {
	b := bodyFor(pos, quat.Quaternion{})
	box, err := geometry.NewBox(b, hx, hy, hz)
	Expect(err).NotTo(HaveOccurred())
	box.SetMass(mass)
	b.Activate()
	Expect(w.Add(box)).To(Succeed())
	return box
}

func addFloor(w *world.World) {
	floor, err := geometry.NewHalfSpace(quat.Vector(0, 1, 0), 0)
	Expect(err).NotTo(HaveOccurred())
	Expect(w.Add(floor)).To(Succeed())
}

var _ = Describe("New", func() {
	It("rejects non-positive capacities", func() {
		cfg := world.DefaultConfig()
		cfg.MaxObjects = 0
		_, err := world.New(cfg)
		Expect(err).To(MatchError(world.ErrInvalidConfig))
	})

	It("rejects negative coefficients", func() {
		cfg := world.DefaultConfig()
		cfg.Restitution = -0.5
		_, err := world.New(cfg)
		Expect(err).To(MatchError(world.ErrInvalidConfig))
	})

	It("rejects relaxation outside [0,1]", func() {
		cfg := world.DefaultConfig()
		cfg.Relaxation = 1.5
		_, err := world.New(cfg)
		Expect(err).To(MatchError(world.ErrInvalidConfig))
	})

	It("accepts the default configuration", func() {
		w, err := world.New(world.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Shapes()).To(BeEmpty())
	})
})

var _ = Describe("Add", func() {
	It("rejects nil shapes", func() {
		w, _ := world.New(world.DefaultConfig())
		Expect(w.Add(nil)).To(MatchError(world.ErrNilShape))
	})

	It("enforces the object capacity", func() {
		cfg := world.DefaultConfig()
		cfg.MaxObjects = 1
		w, _ := world.New(cfg)

		addFloor(w)

		floor, _ := geometry.NewHalfSpace(quat.Vector(0, 1, 0), -1)
		Expect(w.Add(floor)).To(MatchError(world.ErrTooManyObjects))
	})
})

var _ = Describe("Step", func() {
	It("rejects a non-positive time-step", func() {
		w, _ := world.New(world.DefaultConfig())
		Expect(w.Step(0)).To(MatchError(world.ErrInvalidTimeStep))
		Expect(w.Step(-0.01)).To(MatchError(world.ErrInvalidTimeStep))
	})

	It("derives the clock from the step count", func() {
		w, _ := world.New(world.DefaultConfig())
		w.Initialize()

		h := 0.01
		for i := 0; i < 100; i++ {
			Expect(w.Step(h)).To(Succeed())
		}

		Expect(w.StepCount).To(Equal(uint64(100)))
		Expect(w.Time).To(Equal(h * 100))
	})
})

var _ = Describe("more contacts than the registry holds", func() {
	It("completes the step and keeps the first contacts", func() {
		cfg := world.DefaultConfig()
		cfg.Gravity = quat.Quaternion{}
		cfg.MaxContacts = 2
		w, err := world.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		// Five overlapping spheres make ten candidate pairs, far past
		// the registry bound of two.
		for i := 0; i < 5; i++ {
			addSphere(w, 1, 1, quat.Vector(float64(i)*0.1, 0, 0), quat.Quaternion{})
		}
		w.Initialize()

		Expect(w.Step(0.01)).To(Succeed())
		Expect(w.Contacts().Count()).To(Equal(2))
	})
})

var _ = Describe("Bodies", func() {
	It("reuses the same list across steps", func() {
		cfg := world.DefaultConfig()
		cfg.Gravity = quat.Quaternion{}
		w, _ := world.New(cfg)

		addSphere(w, 1, 0.5, quat.Vector(0, 1, 0), quat.Quaternion{})
		addSphere(w, 1, 0.5, quat.Vector(3, 1, 0), quat.Quaternion{})
		addFloor(w)
		w.Initialize()

		before := w.Bodies()
		Expect(before).To(HaveLen(2))

		Expect(w.Step(0.01)).To(Succeed())

		after := w.Bodies()
		Expect(after).To(HaveLen(2))
		Expect(&after[0]).To(BeIdenticalTo(&before[0]))
	})
})

var _ = Describe("two spheres colliding head on", func() {
	var w *world.World

	BeforeEach(func() {
		cfg := world.DefaultConfig()
		cfg.Gravity = quat.Quaternion{}
		var err error
		w, err = world.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		addSphere(w, 1, 0.5, quat.Vector(-2, 0, 0), quat.Vector(1, 0, 0))
		addSphere(w, 1, 0.5, quat.Vector(2, 0, 0), quat.Vector(-1, 0, 0))
		w.Initialize()
	})

	It("exchanges the velocities elastically", func() {
		for i := 0; i < 300; i++ {
			Expect(w.Step(0.01)).To(Succeed())
		}

		bodies := w.Bodies()
		Expect(bodies[0].Velocity.X).To(BeNumerically("<", 0))
		Expect(bodies[1].Velocity.X).To(BeNumerically(">", 0))
		Expect(math.Abs(bodies[0].Velocity.X)).To(BeNumerically("~", 1, 1e-6))
	})

	It("conserves momentum and energy", func() {
		energyBefore := w.TotalEnergy()

		for i := 0; i < 300; i++ {
			Expect(w.Step(0.01)).To(Succeed())
		}

		Expect(w.TotalLinearMomentum.ImNorm()).To(BeNumerically("<", 1e-9))
		Expect(w.TotalEnergy()).To(BeNumerically("~", energyBefore, 1e-6))
	})
})

var _ = Describe("a sphere bouncing on the floor", func() {
	It("approximately conserves mechanical energy", func() {
		cfg := world.DefaultConfig()
		w, err := world.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		addSphere(w, 1, 0.5, quat.Vector(0, 3, 0), quat.Quaternion{})
		addFloor(w)
		w.Initialize()

		Expect(w.Step(0.001)).To(Succeed())
		reference := w.TotalEnergy()

		for i := 0; i < 2000; i++ {
			Expect(w.Step(0.001)).To(Succeed())
		}

		drift := math.Abs(w.TotalEnergy()-reference) / math.Abs(reference)
		Expect(drift).To(BeNumerically("<", 0.1))
	})

	It("never sinks through the floor", func() {
		w, _ := world.New(world.DefaultConfig())
		s := addSphere(w, 1, 0.5, quat.Vector(0, 2, 0), quat.Quaternion{})
		addFloor(w)
		w.Initialize()

		for i := 0; i < 3000; i++ {
			Expect(w.Step(0.001)).To(Succeed())
		}

		Expect(s.Position().Y).To(BeNumerically(">", 0.4))
	})
})

var _ = Describe("a box dropped on the floor", func() {
	It("settles and falls asleep", func() {
		cfg := world.DefaultConfig()
		cfg.Restitution = 0.2
		cfg.Friction = 0.6
		w, err := world.New(cfg)
		Expect(err).NotTo(HaveOccurred())

		box := addBox(w, 1, 0.5, 0.5, 0.5, quat.Vector(0, 0.7, 0))
		box.Body().Damping = true
		box.Body().SetCanSleep(true)
		addFloor(w)
		w.Initialize()

		for i := 0; i < 6000; i++ {
			Expect(w.Step(0.001)).To(Succeed())
		}

		Expect(box.Body().Active).To(BeFalse(), "a settled box should be asleep")
		Expect(box.Position().Y).To(BeNumerically("~", 0.5, 0.05))
	})

	It("stays asleep under gravity alone", func() {
		cfg := world.DefaultConfig()
		cfg.Restitution = 0.2
		w, _ := world.New(cfg)

		box := addBox(w, 1, 0.5, 0.5, 0.5, quat.Vector(0, 0.5, 0))
		box.Body().SetCanSleep(true)
		box.Body().Deactivate()
		addFloor(w)
		w.Initialize()

		for i := 0; i < 500; i++ {
			Expect(w.Step(0.001)).To(Succeed())
		}

		Expect(box.Body().Active).To(BeFalse(), "scenery contacts must not wake a sleeper")
		Expect(box.Position().Y).To(BeNumerically("~", 0.5, 1e-9))
	})
})

var _ = Describe("Clear", func() {
	It("removes all objects and resets the clock", func() {
		w, _ := world.New(world.DefaultConfig())
		addSphere(w, 1, 0.5, quat.Vector(0, 1, 0), quat.Quaternion{})
		w.Initialize()
		Expect(w.Step(0.01)).To(Succeed())

		w.Clear()

		Expect(w.Shapes()).To(BeEmpty())
		Expect(w.Bodies()).To(BeEmpty())
		Expect(w.Time).To(BeZero())
		Expect(w.StepCount).To(BeZero())
		Expect(w.Contacts().Count()).To(BeZero())
	})
})
