package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins
// of data after removing its mean and zero-padding to a power of two.
// Bin k corresponds to k*sampleRate/(2*len(result)).
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	n := nextPow2(len(data))
	padded := make([]float64, n)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken at sampleRate, refined by parabolic
// interpolation between neighbouring bins. Flat or too-short input gives 0.
func DominantFrequency(samples []float64, sampleRate float64) float64 {
	if sampleRate <= 0 || len(samples) < 4 {
		return 0
	}
	ps := PowerSpectrum(samples)
	n := 2 * len(ps)

	peak := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[peak] || peak == 0 {
			peak = k
		}
	}
	if peak == 0 || ps[peak] < 1e-12 {
		return 0
	}

	bin := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			bin += 0.5 * (a - c) / denom
		}
	}
	return bin * sampleRate / float64(n)
}

func nextPow2(n int) int {
	return 1 << uint(math.Ceil(math.Log2(float64(n))))
}
