package batch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfitzpatrick/spectre/internal/paths"
	"github.com/jfitzpatrick/spectre/internal/spectrogram"
)

func writeBatchSpectrogram(t *testing.T, p *paths.Paths, start time.Time, tag string, data [][]float64, times, freqs []float64) {
	t.Helper()
	dir, err := p.BatchesDir(start.Year(), int(start.Month()), start.Day())
	require.NoError(t, err)

	s, err := spectrogram.New(data, times, freqs, spectrogram.Amplitude, start, tag)
	require.NoError(t, err)

	path := filepath.Join(dir, Format(start, tag, SpectrogramExtension))
	require.NoError(t, spectrogram.Save(s, path, spectrogram.ObservatoryMeta{}))
}

func TestBatchesGetSpectrogramSingleBatch(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root, "", "", "")
	require.NoError(t, err)

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	data := [][]float64{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9, 10, 11},
		{12, 13, 14, 15},
	}
	times := []float64{0, 0.25, 0.50, 0.75}
	freqs := []float64{1e6, 2e6, 3e6, 4e6}
	writeBatchSpectrogram(t, p, start, "sweep", data, times, freqs)

	batches := New(p, "sweep")
	require.NoError(t, batches.Refresh(2000, 1, 1))

	got, err := batches.GetSpectrogram(start, start.Add(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, times, got.Times)
	assert.Equal(t, data, got.DynamicSpectra)
}

func TestBatchesJoinAcrossThreeBatches(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root, "", "", "")
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	times := []float64{0, 0.25, 0.50, 0.75}
	freqs := []float64{100e6}

	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Second)
		data := [][]float64{{float64(i*4 + 0), float64(i*4 + 1), float64(i*4 + 2), float64(i*4 + 3)}}
		writeBatchSpectrogram(t, p, start, "sweep", data, times, freqs)
	}

	batches := New(p, "sweep")
	require.NoError(t, batches.Refresh(2024, 5, 1))
	require.Len(t, batches.List(), 3)

	got, err := batches.GetSpectrogram(base, base.Add(3*time.Second))
	require.NoError(t, err)

	expectedTimes := []float64{0, 0.25, 0.50, 0.75, 1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75}
	require.Len(t, got.Times, len(expectedTimes))
	for i, v := range expectedTimes {
		assert.InDelta(t, v, got.Times[i], 1e-9)
	}
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, got.DynamicSpectra[0])
}

func TestBatchesGetSpectrogramNoDataRange(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root, "", "", "")
	require.NoError(t, err)

	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	writeBatchSpectrogram(t, p, start, "sweep",
		[][]float64{{1, 2}}, []float64{0, 1}, []float64{100e6})

	batches := New(p, "sweep")
	require.NoError(t, batches.Refresh(2000, 1, 1))

	far := time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = batches.GetSpectrogram(far, far.Add(24*time.Hour))
	require.Error(t, err)
}

func TestBatchesListIsSortedByStartTime(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root, "", "", "")
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{2, 0, 1} {
		start := base.Add(time.Duration(offset) * time.Hour)
		writeBatchSpectrogram(t, p, start, "sweep", [][]float64{{1}}, []float64{0}, []float64{100e6})
	}

	batches := New(p, "sweep")
	require.NoError(t, batches.Refresh(2024, 5, 1))

	list := batches.List()
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i].StartTime.After(list[i-1].StartTime))
	}
}

func TestBatchesRefreshRequiresMonthAndYearForDay(t *testing.T) {
	root := t.TempDir()
	p, err := paths.New(root, "", "", "")
	require.NoError(t, err)

	batches := New(p, "sweep")
	err = batches.Refresh(0, 0, 15)
	require.Error(t, err)
}
