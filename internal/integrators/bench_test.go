package integrators

import (
	"testing"

	"github.com/san-kum/orrery/internal/body"
)

func benchmarkStep(b *testing.B, scheme Scheme) {
	reg := body.NewRegistry(body.SolarSystem(), body.DefaultDensity)
	in := New(DefaultConfig(), scheme)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.Step(reg, DefaultSubStep)
	}
}

func BenchmarkKinematic(b *testing.B)  { benchmarkStep(b, NewKinematic()) }
func BenchmarkEuler(b *testing.B)      { benchmarkStep(b, NewEuler()) }
func BenchmarkSymplectic(b *testing.B) { benchmarkStep(b, NewSymplectic()) }

func BenchmarkAdvance(b *testing.B) {
	reg := body.NewRegistry(body.SolarSystem(), body.DefaultDensity)
	in := New(DefaultConfig(), NewKinematic())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.Advance(reg)
	}
}
