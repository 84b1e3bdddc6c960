// Package spectrogram implements the in-memory dynamic-spectra tuple of
// spec.md §3/§4.3: averaging, chopping, joining, and FITS persistence.
package spectrogram

import (
	"fmt"
	"math"
	"time"

	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/fitsio"
)

// Unit names the physical meaning of a Spectrogram's magnitude values.
type Unit int

const (
	Amplitude Unit = iota
	Power
	Digits
)

func (u Unit) String() string {
	switch u {
	case Amplitude:
		return "AMPLITUDE"
	case Power:
		return "POWER"
	case Digits:
		return "DIGITS"
	default:
		return "UNKNOWN"
	}
}

func parseUnit(s string) (Unit, error) {
	switch s {
	case "AMPLITUDE":
		return Amplitude, nil
	case "POWER":
		return Power, nil
	case "DIGITS":
		return Digits, nil
	default:
		return 0, fmt.Errorf("%w: unrecognised spectrum unit %q", errs.ErrInvalidShape, s)
	}
}

// Spectrogram is the tuple of spec.md §3: a frequency×time magnitude grid,
// its time/frequency axes, a unit, an absolute start time, and a tag.
type Spectrogram struct {
	DynamicSpectra [][]float64 // DynamicSpectra[frequency][time]
	Times          []float64   // seconds since StartDatetime, strictly increasing, Times[0] == 0
	Frequencies    []float64   // Hz, strictly increasing
	Unit           Unit
	StartDatetime  time.Time
	Tag            string
}

// New validates and constructs a Spectrogram from its constituent parts.
func New(data [][]float64, times, frequencies []float64, unit Unit, start time.Time, tag string) (*Spectrogram, error) {
	s := &Spectrogram{
		DynamicSpectra: data,
		Times:          times,
		Frequencies:    frequencies,
		Unit:           unit,
		StartDatetime:  start,
		Tag:            tag,
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Spectrogram) validate() error {
	if len(s.DynamicSpectra) != len(s.Frequencies) {
		return fmt.Errorf("%w: dynamic_spectra has %d rows, frequencies has %d", errs.ErrInvalidShape, len(s.DynamicSpectra), len(s.Frequencies))
	}
	for i, row := range s.DynamicSpectra {
		if len(row) != len(s.Times) {
			return fmt.Errorf("%w: row %d has %d columns, times has %d", errs.ErrInvalidShape, i, len(row), len(s.Times))
		}
	}
	if len(s.Times) == 0 {
		return fmt.Errorf("%w: times must not be empty", errs.ErrInvalidShape)
	}
	if s.Times[0] != 0 {
		return fmt.Errorf("%w: times[0] must be 0, got %v", errs.ErrInvalidShape, s.Times[0])
	}
	for i := 1; i < len(s.Times); i++ {
		if s.Times[i] <= s.Times[i-1] {
			return fmt.Errorf("%w: times must be strictly increasing at index %d", errs.ErrInvalidShape, i)
		}
	}
	for i := 1; i < len(s.Frequencies); i++ {
		if s.Frequencies[i] <= s.Frequencies[i-1] {
			return fmt.Errorf("%w: frequencies must be strictly increasing at index %d", errs.ErrInvalidShape, i)
		}
	}
	return nil
}

// TimeResolution is the spacing between the first two time samples.
func (s *Spectrogram) TimeResolution() float64 {
	if len(s.Times) < 2 {
		return 0
	}
	return s.Times[1] - s.Times[0]
}

// FrequencyResolution is the spacing between the first two frequency bins.
func (s *Spectrogram) FrequencyResolution() float64 {
	if len(s.Frequencies) < 2 {
		return 0
	}
	return s.Frequencies[1] - s.Frequencies[0]
}

// TimeRange is the duration spanned by Times.
func (s *Spectrogram) TimeRange() float64 {
	if len(s.Times) == 0 {
		return 0
	}
	return s.Times[len(s.Times)-1] - s.Times[0]
}

// Datetime returns the absolute timestamp of sample i.
func (s *Spectrogram) Datetime(i int) time.Time {
	return s.StartDatetime.Add(time.Duration(s.Times[i] * float64(time.Second)))
}

// TimeAverage groups contiguous spectra into blocks spanning resolution
// seconds, averaging each block and truncating the trailing partial block.
// The first block's midpoint becomes the new start datetime, so Times[0]
// stays 0. A no-op when resolution is zero or not coarser than the existing
// resolution.
func TimeAverage(s *Spectrogram, resolution float64) (*Spectrogram, error) {
	if resolution <= 0 || resolution <= s.TimeResolution() {
		return s, nil
	}
	blockSize := int(math.Floor(resolution / s.TimeResolution()))
	if blockSize < 1 {
		blockSize = 1
	}
	numBlocks := len(s.Times) / blockSize
	if numBlocks < 1 {
		return s, nil
	}

	newTimes := make([]float64, numBlocks)
	newData := make([][]float64, len(s.Frequencies))
	for f := range newData {
		newData[f] = make([]float64, numBlocks)
	}

	for b := 0; b < numBlocks; b++ {
		start := b * blockSize
		end := start + blockSize
		newTimes[b] = (s.Times[start] + s.Times[end-1]) / 2
		for f, row := range s.DynamicSpectra {
			var sum float64
			for t := start; t < end; t++ {
				sum += row[t]
			}
			newData[f][b] = sum / float64(blockSize)
		}
	}
	offset := newTimes[0]
	for b := range newTimes {
		newTimes[b] -= offset
	}
	return &Spectrogram{
		DynamicSpectra: newData,
		Times:          newTimes,
		Frequencies:    s.Frequencies,
		Unit:           s.Unit,
		StartDatetime:  s.StartDatetime.Add(time.Duration(offset * float64(time.Second))),
		Tag:            s.Tag,
	}, nil
}

// FrequencyAverage is the frequency-axis analogue of TimeAverage.
func FrequencyAverage(s *Spectrogram, resolution float64) (*Spectrogram, error) {
	if resolution <= 0 || resolution <= s.FrequencyResolution() {
		return s, nil
	}
	blockSize := int(math.Floor(resolution / s.FrequencyResolution()))
	if blockSize < 1 {
		blockSize = 1
	}
	numBlocks := len(s.Frequencies) / blockSize
	if numBlocks < 1 {
		return s, nil
	}

	newFreqs := make([]float64, numBlocks)
	newData := make([][]float64, numBlocks)
	for b := 0; b < numBlocks; b++ {
		start := b * blockSize
		end := start + blockSize
		newFreqs[b] = (s.Frequencies[start] + s.Frequencies[end-1]) / 2
		row := make([]float64, len(s.Times))
		for t := range s.Times {
			var sum float64
			for f := start; f < end; f++ {
				sum += s.DynamicSpectra[f][t]
			}
			row[t] = sum / float64(blockSize)
		}
		newData[b] = row
	}

	return &Spectrogram{
		DynamicSpectra: newData,
		Times:          s.Times,
		Frequencies:    newFreqs,
		Unit:           s.Unit,
		StartDatetime:  s.StartDatetime,
		Tag:            s.Tag,
	}, nil
}

// TimeChop returns the sub-spectrogram whose datetimes fall within
// [tStart, tEnd], re-baselining Times[0] to 0.
func TimeChop(s *Spectrogram, tStart, tEnd time.Time) (*Spectrogram, error) {
	spanStart, spanEnd := s.Datetime(0), s.Datetime(len(s.Times)-1)
	if !tStart.After(spanStart) && !tEnd.Before(spanEnd) {
		return s, nil
	}

	var indices []int
	for i := range s.Times {
		dt := s.Datetime(i)
		if !dt.Before(tStart) && !dt.After(tEnd) {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no samples fall within [%s, %s]", errs.ErrEmptyChop, tStart, tEnd)
	}

	base := s.Times[indices[0]]
	newTimes := make([]float64, len(indices))
	newData := make([][]float64, len(s.Frequencies))
	for f := range newData {
		newData[f] = make([]float64, len(indices))
	}
	for j, i := range indices {
		newTimes[j] = s.Times[i] - base
		for f, row := range s.DynamicSpectra {
			newData[f][j] = row[i]
		}
	}

	return &Spectrogram{
		DynamicSpectra: newData,
		Times:          newTimes,
		Frequencies:    s.Frequencies,
		Unit:           s.Unit,
		StartDatetime:  s.Datetime(indices[0]),
		Tag:            s.Tag,
	}, nil
}

const frequencyTolerance = 1e-5

// Join concatenates spectrograms along the time axis. All inputs must share
// frequencies (within tolerance) and unit, and must be monotonically
// non-overlapping in datetime.
func Join(spectrograms ...*Spectrogram) (*Spectrogram, error) {
	if len(spectrograms) == 0 {
		return nil, fmt.Errorf("%w: no spectrograms to join", errs.ErrJoinIncompatible)
	}
	first := spectrograms[0]
	if len(spectrograms) == 1 {
		return first, nil
	}

	for i := 1; i < len(spectrograms); i++ {
		prev, cur := spectrograms[i-1], spectrograms[i]
		if cur.Unit != first.Unit {
			return nil, fmt.Errorf("%w: spectrum unit mismatch at index %d", errs.ErrJoinIncompatible, i)
		}
		if len(cur.Frequencies) != len(first.Frequencies) {
			return nil, fmt.Errorf("%w: frequency axis length mismatch at index %d", errs.ErrJoinIncompatible, i)
		}
		for f := range cur.Frequencies {
			if math.Abs(cur.Frequencies[f]-first.Frequencies[f]) > frequencyTolerance {
				return nil, fmt.Errorf("%w: frequency axis mismatch at index %d, bin %d", errs.ErrJoinIncompatible, i, f)
			}
		}
		prevEnd := prev.Datetime(len(prev.Times) - 1)
		curStart := cur.Datetime(0)
		if !prevEnd.Before(curStart) {
			return nil, fmt.Errorf("%w: spectrogram %d overlaps spectrogram %d in time", errs.ErrJoinIncompatible, i-1, i)
		}
	}

	startDatetime := first.StartDatetime
	newData := make([][]float64, len(first.Frequencies))
	for f := range newData {
		newData[f] = []float64{}
	}
	var newTimes []float64

	for _, s := range spectrograms {
		for i := range s.Times {
			dt := s.Datetime(i)
			newTimes = append(newTimes, dt.Sub(startDatetime).Seconds())
			for f, row := range s.DynamicSpectra {
				newData[f] = append(newData[f], row[i])
			}
		}
	}

	return &Spectrogram{
		DynamicSpectra: newData,
		Times:          newTimes,
		Frequencies:    first.Frequencies,
		Unit:           first.Unit,
		StartDatetime:  startDatetime,
		Tag:            first.Tag,
	}, nil
}

// ObservatoryMeta carries the site keywords written into a Spectrogram's
// FITS primary header (spec.md §4.3/§6).
type ObservatoryMeta struct {
	Origin      string
	Telescope   string
	Instrument  string
	Object      string
	Latitude    float64
	Longitude   float64
	AltitudeM   float64
}

// Save persists s as a FITS file at path, creating its parent directory if
// it does not exist.
func Save(s *Spectrogram, path string, meta ObservatoryMeta) error {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("spectrogram: create %q: %w", path, err)
	}
	defer f.Close()

	rows := len(s.DynamicSpectra)
	data := make([][]float32, rows)
	for i, row := range s.DynamicSpectra {
		out := make([]float32, len(row))
		for j, v := range row {
			out[j] = float32(v)
		}
		data[i] = out
	}

	dateObs, timeObs := splitDatetime(s.StartDatetime)

	img := fitsio.Image{
		Data: data,
		Keywords: []fitsio.Keyword{
			fitsio.StringKeyword("ORIGIN", meta.Origin),
			fitsio.StringKeyword("TELESCOP", meta.Telescope),
			fitsio.StringKeyword("INSTRUME", meta.Instrument),
			fitsio.StringKeyword("OBJECT", meta.Object),
			fitsio.FloatKeyword("OBS_LAT", meta.Latitude),
			fitsio.FloatKeyword("OBS_LON", meta.Longitude),
			fitsio.FloatKeyword("OBS_ALT", meta.AltitudeM),
			fitsio.StringKeyword("BUNIT", s.Unit.String()),
			fitsio.StringKeyword("DATE-OBS", dateObs),
			fitsio.StringKeyword("TIME-OBS", timeObs),
		},
	}

	freqMHz := make([]float32, len(s.Frequencies))
	for i, hz := range s.Frequencies {
		freqMHz[i] = float32(hz / 1e6)
	}
	timesSec := make([]float32, len(s.Times))
	for i, t := range s.Times {
		timesSec[i] = float32(t)
	}

	return fitsio.Write(f, img, fitsio.BinTable{Time: timesSec, Frequency: freqMHz})
}

// Load reads a Spectrogram back from a FITS file written by Save.
func Load(path, tag string) (*Spectrogram, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("spectrogram: open %q: %w", path, err)
	}
	defer f.Close()

	img, table, err := fitsio.Read(f)
	if err != nil {
		return nil, fmt.Errorf("spectrogram: read %q: %w", path, err)
	}

	var unit Unit
	var start time.Time
	var dateObs, timeObs string
	for _, kw := range img.Keywords {
		switch kw.Name {
		case "BUNIT":
			unit, err = parseUnit(kw.Value)
			if err != nil {
				return nil, err
			}
		case "DATE-OBS":
			dateObs = kw.Value
		case "TIME-OBS":
			timeObs = kw.Value
		}
	}
	start, err = joinDatetime(dateObs, timeObs)
	if err != nil {
		return nil, fmt.Errorf("spectrogram: parse start datetime: %w", err)
	}

	data := make([][]float64, len(img.Data))
	for i, row := range img.Data {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = float64(v)
		}
		data[i] = out
	}

	times := make([]float64, len(table.Time))
	for i, v := range table.Time {
		times[i] = float64(v)
	}
	frequencies := make([]float64, len(table.Frequency))
	for i, v := range table.Frequency {
		frequencies[i] = float64(v) * 1e6
	}

	return New(data, times, frequencies, unit, start, tag)
}
