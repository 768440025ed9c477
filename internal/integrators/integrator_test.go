package integrators

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
)

var _ = Describe("Forces", func() {
	params := Params{G: G}

	Context("with two isolated bodies", func() {
		var (
			reg    *body.Registry
			forces []r2.Vec
		)
		const (
			m1 = 5.9724e24
			m2 = 7.342e22
			r  = 3.844e8
		)

		BeforeEach(func() {
			reg = body.NewRegistry([]body.Spec{
				{Name: "planet", Mass: m1},
				{Name: "moon", X: r * 0.6, Y: r * 0.8, Mass: m2},
			}, body.DefaultDensity)
			forces = make([]r2.Vec, 2)
			Forces(reg.Snapshot(), params, forces)
		})

		It("applies equal and opposite forces", func() {
			mag := r2.Norm(forces[0])
			Expect(mag).To(BeNumerically("~", G*m1*m2/(r*r), G*m1*m2/(r*r)*1e-12))
			Expect(r2.Norm(r2.Add(forces[0], forces[1]))).To(BeNumerically("<", mag*1e-12))
		})

		It("gives a relative acceleration of G(m1+m2)/r²", func() {
			a1 := r2.Scale(1/m1, forces[0])
			a2 := r2.Scale(1/m2, forces[1])
			want := G * (m1 + m2) / (r * r)
			Expect(r2.Norm(r2.Sub(a1, a2))).To(BeNumerically("~", want, want*1e-12))
		})

		It("pulls each body toward the other", func() {
			Expect(forces[0].X).To(BeNumerically(">", 0))
			Expect(forces[0].Y).To(BeNumerically(">", 0))
			Expect(forces[1].X).To(BeNumerically("<", 0))
			Expect(forces[1].Y).To(BeNumerically("<", 0))
		})
	})

	It("is unbounded for coincident bodies without softening", func() {
		reg := body.NewRegistry([]body.Spec{{Mass: 1e20}, {Mass: 1e20}}, body.DefaultDensity)
		forces := make([]r2.Vec, 2)
		Forces(reg.Snapshot(), params, forces)
		Expect(dynamo.IsFinite(forces[0])).To(BeFalse())
	})

	It("stays finite for coincident bodies with softening", func() {
		reg := body.NewRegistry([]body.Spec{{Mass: 1e20}, {Mass: 1e20}}, body.DefaultDensity)
		forces := make([]r2.Vec, 2)
		Forces(reg.Snapshot(), Params{G: G, Softening: 1e3}, forces)
		Expect(forces[0]).To(Equal(r2.Vec{}))
	})
})

var _ = Describe("Integrator", func() {
	Describe("a sub-step", func() {
		var reg *body.Registry

		BeforeEach(func() {
			reg = body.NewRegistry([]body.Spec{
				{Name: "a", X: 0, Y: 0, VX: 0, VY: 0, Mass: 2e30},
				{Name: "b", X: 1e11, Y: 0, VX: 0, VY: 3e4, Mass: 6e24},
				{Name: "c", X: 0, Y: 2e11, VX: -2e4, VY: 0, Mass: 6e26},
				{Name: "d", X: -1.5e11, Y: -1e10, VX: 1e3, VY: -2.5e4, Mass: 1e24},
			}, body.DefaultDensity)
		})

		It("computes forces from the committed snapshot only", func() {
			snap := reg.Snapshot()
			before := make([]r2.Vec, snap.Len())
			Forces(snap, Params{G: G}, before)

			staging := reg.Staging()
			for i := 0; i < staging.Len(); i++ {
				staging.Set(i, body.Kinematics{Pos: r2.Vec{X: float64(i) * 1e9, Y: -1e12}})
			}

			after := make([]r2.Vec, snap.Len())
			Forces(snap, Params{G: G}, after)
			Expect(after).To(Equal(before))
		})

		It("derives every next state from the same pre-step snapshot", func() {
			const dt = 10.0
			snap := reg.Snapshot()
			initial := make([]body.Kinematics, snap.Len())
			for i := range initial {
				initial[i] = snap.Kinematics(i)
			}
			forces := make([]r2.Vec, snap.Len())
			Forces(snap, Params{G: G}, forces)

			in := New(DefaultConfig(), NewKinematic())
			in.Step(reg, dt)

			scheme := NewKinematic()
			after := reg.Snapshot()
			for i := range initial {
				want := scheme.Next(initial[i], r2.Scale(1/after.Mass(i), forces[i]), dt)
				Expect(after.Kinematics(i)).To(Equal(want), "body %d", i)
			}
		})

		It("differs from an in-place sequential update", func() {
			const dt = 3600.0
			seq := body.NewRegistry(reg.Specs(), body.DefaultDensity)
			scheme := NewKinematic()
			forces := make([]r2.Vec, seq.Len())

			// update one body at a time, committing each before the next is computed
			for i := 0; i < seq.Len(); i++ {
				snap := seq.Snapshot()
				Forces(snap, Params{G: G}, forces)
				staging := seq.Staging()
				for j := 0; j < snap.Len(); j++ {
					k := snap.Kinematics(j)
					if j == i {
						k = scheme.Next(k, r2.Scale(1/snap.Mass(j), forces[j]), dt)
					}
					staging.Set(j, k)
				}
				seq.Commit()
			}

			New(DefaultConfig(), scheme).Step(reg, dt)
			Expect(reg.Snapshot().Pos(3)).NotTo(Equal(seq.Snapshot().Pos(3)))
		})

		It("leaves mass and radius untouched", func() {
			before := reg.Bodies()
			New(DefaultConfig(), NewKinematic()).Step(reg, 10)
			for i, v := range reg.Bodies() {
				Expect(v.Mass).To(Equal(before[i].Mass))
				Expect(v.Radius).To(Equal(before[i].Radius))
			}
		})
	})

	Describe("a single isolated body", func() {
		It("moves uniformly", func() {
			reg := body.NewRegistry([]body.Spec{
				{Name: "lonely", X: 1e9, Y: -2e9, VX: 1.5e3, VY: 2.5e3, Mass: 1e24},
			}, body.DefaultDensity)
			forces := make([]r2.Vec, 1)
			Forces(reg.Snapshot(), Params{G: G}, forces)
			Expect(forces[0]).To(Equal(r2.Vec{}))

			New(DefaultConfig(), NewKinematic()).Step(reg, 10)

			got := reg.Snapshot().Kinematics(0)
			Expect(got.Pos).To(Equal(r2.Vec{X: 1e9 + 1.5e3*10, Y: -2e9 + 2.5e3*10}))
			Expect(got.Vel).To(Equal(r2.Vec{X: 1.5e3, Y: 2.5e3}))
		})
	})

	Describe("a macro-step", func() {
		It("runs 8640 sub-steps of 10 s for one day", func() {
			reg := body.NewRegistry(body.SolarSystem(), body.DefaultDensity)
			in := New(DefaultConfig(), NewKinematic())

			calls := 0
			in.AddObserver(dynamo.ObserverFunc(func(s dynamo.Snapshot, r dynamo.Report, t float64) {
				calls++
			}))

			rep := in.Advance(reg)
			Expect(rep.SubSteps).To(Equal(8640))
			Expect(rep.Simulated).To(Equal(86400.0))
			Expect(rep.Dropped).To(BeZero())
			Expect(in.SubSteps()).To(Equal(8640))
			Expect(in.Time()).To(Equal(86400.0))
			Expect(calls).To(Equal(1))
		})

		Context("when the macro-step is not a multiple of the sub-step", func() {
			var (
				reg *body.Registry
				cfg Config
			)

			BeforeEach(func() {
				reg = body.NewRegistry([]body.Spec{{Name: "lonely", VX: 2, Mass: 1}}, body.DefaultDensity)
				cfg = DefaultConfig()
				cfg.MacroStep = 25
				cfg.SubStep = 10
			})

			It("drops the remainder by default", func() {
				rep := New(cfg, NewKinematic()).Advance(reg)
				Expect(rep.SubSteps).To(Equal(2))
				Expect(rep.Dropped).To(BeNumerically("~", 5, 1e-12))
				Expect(reg.Snapshot().Pos(0).X).To(BeNumerically("~", 40, 1e-12))
			})

			It("runs a shorter final sub-step when asked", func() {
				cfg.Remainder = RemainderPartial
				in := New(cfg, NewKinematic())
				rep := in.Advance(reg)
				Expect(rep.SubSteps).To(Equal(3))
				Expect(rep.Dropped).To(BeZero())
				Expect(in.Time()).To(BeNumerically("~", 25, 1e-12))
				Expect(reg.Snapshot().Pos(0).X).To(BeNumerically("~", 50, 1e-12))
			})
		})
	})

	Describe("one simulated day of the solar system", func() {
		var (
			reg   *body.Registry
			earth body.View
		)

		BeforeEach(func() {
			reg = body.NewRegistry(body.SolarSystem(), body.DefaultDensity)
			New(DefaultConfig(), NewKinematic()).Advance(reg)
			earth = reg.Bodies()[3]
			Expect(earth.Name).To(Equal("earth"))
		})

		It("pulls the earth toward the sun", func() {
			drop := 149.596e9 - earth.Pos.X
			Expect(drop).To(BeNumerically(">", 2.0e7))
			Expect(drop).To(BeNumerically("<", 2.4e7))
			Expect(earth.Pos.Y).To(BeNumerically("~", 29.78e3*86400, 29.78e3*86400*1e-3))
		})

		It("matches a plain double-precision reference", func() {
			x, y := referenceDay(body.SolarSystem(), 3)
			Expect(earth.Pos.X).To(BeNumerically("~", x, math.Abs(x)*1e-9))
			Expect(earth.Pos.Y).To(BeNumerically("~", y, math.Abs(y)*1e-9))
		})

		It("keeps every body finite", func() {
			Expect(reg.Validate()).To(Succeed())
		})
	})

	It("reports coincident bodies through Validate", func() {
		reg := body.NewRegistry([]body.Spec{
			{Name: "a", Mass: 1e20},
			{Name: "b", Mass: 1e20},
			{Name: "c", X: 1e9, Mass: 1e20},
		}, body.DefaultDensity)
		in := New(DefaultConfig(), NewKinematic())
		in.Step(reg, 10)

		err := in.Validate(reg)
		Expect(err).To(MatchError(dynamo.ErrNonFinite))
		var simErr *dynamo.SimulationError
		Expect(err).To(BeAssignableToTypeOf(simErr))
		Expect(err.(*dynamo.SimulationError).Step).To(Equal(1))
	})
})

// referenceDay integrates one day with flat arrays and returns the position
// of body idx.
func referenceDay(specs []body.Spec, idx int) (float64, float64) {
	n := len(specs)
	x, y := make([]float64, n), make([]float64, n)
	vx, vy := make([]float64, n), make([]float64, n)
	m := make([]float64, n)
	for i, s := range specs {
		x[i], y[i], vx[i], vy[i], m[i] = s.X, s.Y, s.VX, s.VY, s.Mass
	}
	nx, ny := make([]float64, n), make([]float64, n)
	nvx, nvy := make([]float64, n), make([]float64, n)

	const dt = 10.0
	for t := 0.0; t < 86400; t += dt {
		for i := 0; i < n; i++ {
			fx, fy := 0.0, 0.0
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx, dy := x[j]-x[i], y[j]-y[i]
				mag := G * m[i] * m[j] / math.Pow(dx*dx+dy*dy, 1.5)
				fx += mag * dx
				fy += mag * dy
			}
			ax, ay := fx/m[i], fy/m[i]
			nx[i] = x[i] + vx[i]*dt + 0.5*ax*dt*dt
			ny[i] = y[i] + vy[i]*dt + 0.5*ay*dt*dt
			nvx[i] = vx[i] + ax*dt
			nvy[i] = vy[i] + ay*dt
		}
		copy(x, nx)
		copy(y, ny)
		copy(vx, nvx)
		copy(vy, nvy)
	}
	return x[idx], y[idx]
}
