// Package analysis extracts orbital characteristics from recorded series.
//
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [Period]: dominant period of a series, refined between FFT bins
//
// # Orbital Period
//
// The x coordinate of a body on a closed orbit oscillates once per
// revolution, so the spectral peak of the daily x samples gives the period:
//
//	days := analysis.Period(recorder.X(3), 1)
package analysis
