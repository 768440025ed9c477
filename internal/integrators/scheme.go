package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orrery/internal/body"
)

// Scheme maps a body's committed kinematics and its acceleration, held
// constant over dt, to the staged next kinematics.
type Scheme interface {
	Name() string
	Next(k body.Kinematics, a r2.Vec, dt float64) body.Kinematics
}

// Kinematic uses the constant-acceleration equations of motion with the
// start-of-step velocity:
//
//	p' = p + v·dt + ½·a·dt²
//	v' = v + a·dt
type Kinematic struct{}

func NewKinematic() *Kinematic { return &Kinematic{} }

func (*Kinematic) Name() string { return "kinematic" }

func (*Kinematic) Next(k body.Kinematics, a r2.Vec, dt float64) body.Kinematics {
	return body.Kinematics{
		Pos: r2.Add(r2.Add(k.Pos, r2.Scale(dt, k.Vel)), r2.Scale(0.5*dt*dt, a)),
		Vel: r2.Add(k.Vel, r2.Scale(dt, a)),
	}
}

// Euler is the explicit (forward) Euler method.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (*Euler) Name() string { return "euler" }

func (*Euler) Next(k body.Kinematics, a r2.Vec, dt float64) body.Kinematics {
	return body.Kinematics{
		Pos: r2.Add(k.Pos, r2.Scale(dt, k.Vel)),
		Vel: r2.Add(k.Vel, r2.Scale(dt, a)),
	}
}

// Symplectic is semi-implicit Euler: the velocity is kicked first and the
// position drifts with the new velocity.
type Symplectic struct{}

func NewSymplectic() *Symplectic { return &Symplectic{} }

func (*Symplectic) Name() string { return "symplectic" }

func (*Symplectic) Next(k body.Kinematics, a r2.Vec, dt float64) body.Kinematics {
	v := r2.Add(k.Vel, r2.Scale(dt, a))
	return body.Kinematics{
		Pos: r2.Add(k.Pos, r2.Scale(dt, v)),
		Vel: v,
	}
}
