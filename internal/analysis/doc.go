// Package analysis extracts oscillation characteristics from recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a mean-removed series
//   - [DominantFrequency]: strongest oscillation frequency in Hz
//   - [NewPhasePortrait]: position against velocity for one body
//
// # Sway Frequency
//
// A swinging load traces a damped sinusoid in its x channel:
//
//	hz := analysis.DominantFrequency(result.Series("L1.x"), sampleRate)
package analysis
