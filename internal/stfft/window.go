package stfft

import (
	"fmt"
	"math"

	"github.com/jfitzpatrick/spectre/internal/errs"
)

// Window names a supported analysis window. Coefficients are computed to be
// bit-exact with Scipy's get_window for the symmetric case (sym=True).
type Window string

const (
	Boxcar   Window = "boxcar"
	Hann     Window = "hann"
	Blackman Window = "blackman"
)

// Coefficients returns the size-length window of the named kind. Fails with
// UnsupportedWindow for any name other than boxcar, hann, blackman.
func Coefficients(window Window, size int) ([]float64, error) {
	switch window {
	case Boxcar:
		return boxcar(size), nil
	case Hann:
		return hann(size), nil
	case Blackman:
		return blackman(size), nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedWindow, window)
	}
}

func boxcar(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 1
	}
	return w
}

func hann(size int) []float64 {
	if size <= 1 {
		return boxcar(size)
	}
	w := make([]float64, size)
	m := float64(size - 1)
	for n := 0; n < size; n++ {
		w[n] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(n)/m)
	}
	return w
}

func blackman(size int) []float64 {
	if size <= 1 {
		return boxcar(size)
	}
	w := make([]float64, size)
	m := float64(size - 1)
	for n := 0; n < size; n++ {
		x := float64(n) / m
		w[n] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	}
	return w
}
