package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins of
// data after removing its mean. Bin k corresponds to k cycles per len(data)
// samples.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Period returns the dominant period of data sampled every dt, in the units
// of dt. It returns 0 when the series is too short or has no oscillation.
// The peak bin is refined using the magnitude of its larger neighbour, which
// is exact for a pure tone under a rectangular window.
func Period(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 || math.IsNaN(ps[peak]) {
		return 0
	}

	k := float64(peak)
	a, b, c := ps[peak-1], ps[peak], 0.0
	if peak+1 < len(ps) {
		c = ps[peak+1]
	}
	if c > a {
		k += c / (b + c)
	} else {
		k -= a / (a + b)
	}
	if k <= 0 {
		return 0
	}

	return float64(len(data)) * dt / k
}
