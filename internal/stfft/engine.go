// Package stfft implements the Short-Time FFT engine of spec.md §4.2: a
// complex-valued signal is chopped into overlapping windows, each windowed
// and transformed, and the magnitudes assembled into a Spectrogram.
package stfft

import (
	"fmt"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/spectrogram"
)

// Engine holds a pre-planned FFT plan and window coefficients for reuse
// across many Run calls against the same window size.
type Engine struct {
	window     []float64
	windowSize int
	hop        int
	fft        *fourier.CmplxFFT
}

// NewEngine validates windowSize and hop and builds the window coefficients
// and FFT plan once, ahead of repeated use.
func NewEngine(window Window, windowSize, hop int) (*Engine, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: window size %d", errs.ErrInvalidWindowSize, windowSize)
	}
	if hop < 1 {
		return nil, fmt.Errorf("%w: hop %d", errs.ErrInvalidHop, hop)
	}
	coeffs, err := Coefficients(window, windowSize)
	if err != nil {
		return nil, err
	}
	return &Engine{
		window:     coeffs,
		windowSize: windowSize,
		hop:        hop,
		fft:        fourier.NewCmplxFFT(windowSize),
	}, nil
}

// NumSpectrums derives the number of output spectra for a signal of length n
// against this engine's window size and hop, per spec.md §4.2.
func (e *Engine) NumSpectrums(n int) int {
	if e.windowSize > n {
		return 1
	}
	count := (n-e.windowSize)/e.hop + 1
	if count < 1 {
		count = 1
	}
	return count
}

// Run executes the STFFT over x, producing a Spectrogram whose frequency
// axis is centered on centerFrequency and whose start_datetime is start.
func (e *Engine) Run(x []complex128, fs, centerFrequency float64, start time.Time, unit spectrogram.Unit, tag string) (*spectrogram.Spectrogram, error) {
	n := len(x)
	w := e.windowSize
	numSpectrums := e.NumSpectrums(n)

	data := make([][]float64, w)
	for i := range data {
		data[i] = make([]float64, numSpectrums)
	}

	buf := make([]complex128, w)
	for k := 0; k < numSpectrums; k++ {
		segStart := k * e.hop
		for j := 0; j < w; j++ {
			idx := segStart + j
			if idx < n {
				buf[j] = x[idx] * complex(e.window[j], 0)
			} else {
				buf[j] = 0
			}
		}
		coeffs := e.fft.Coefficients(nil, buf)
		mags := make([]float64, w)
		for j := 0; j < w; j++ {
			mags[j] = cmplx.Abs(coeffs[j])
		}
		shifted := fftshift(mags)
		for j := 0; j < w; j++ {
			data[j][k] = shifted[j]
		}
	}

	freqs := frequencyAxis(w, fs, centerFrequency)
	times := make([]float64, numSpectrums)
	for k := range times {
		times[k] = float64(k) * float64(e.hop) / fs
	}

	return spectrogram.New(data, times, freqs, unit, start, tag)
}
