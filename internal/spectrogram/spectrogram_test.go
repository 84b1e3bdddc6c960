package spectrogram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func must(t *testing.T, data [][]float64, times, freqs []float64) *Spectrogram {
	t.Helper()
	s, err := New(data, times, freqs, Amplitude, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "test")
	require.NoError(t, err)
	return s
}

func TestNewRejectsNonZeroFirstTime(t *testing.T) {
	_, err := New([][]float64{{1, 2}}, []float64{1, 2}, []float64{100}, Amplitude, time.Now(), "t")
	require.Error(t, err)
}

func TestNewRejectsNonIncreasingTimes(t *testing.T) {
	_, err := New([][]float64{{1, 2, 3}}, []float64{0, 1, 1}, []float64{100}, Amplitude, time.Now(), "t")
	require.Error(t, err)
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	_, err := New([][]float64{{1, 2}, {3, 4}}, []float64{0, 1}, []float64{100}, Amplitude, time.Now(), "t")
	require.Error(t, err)
}

func TestDerivedProperties(t *testing.T) {
	s := must(t, [][]float64{{1, 2, 3}}, []float64{0, 1, 2}, []float64{100, 200})
	assert.Equal(t, 1.0, s.TimeResolution())
	assert.Equal(t, 100.0, s.FrequencyResolution())
	assert.Equal(t, 2.0, s.TimeRange())
}

func TestTimeAverageGroupsAndTruncates(t *testing.T) {
	s := must(t, [][]float64{{1, 2, 3, 4, 5}}, []float64{0, 1, 2, 3, 4}, []float64{100})
	out, err := TimeAverage(s, 2)
	require.NoError(t, err)
	require.Len(t, out.Times, 2)
	assert.Equal(t, []float64{1.5, 3.5}, out.DynamicSpectra[0])
}

func TestTimeAverageNoopBelowResolution(t *testing.T) {
	s := must(t, [][]float64{{1, 2, 3}}, []float64{0, 1, 2}, []float64{100})
	out, err := TimeAverage(s, 0)
	require.NoError(t, err)
	assert.Same(t, s, out)
}

func TestFrequencyAverageGroups(t *testing.T) {
	s := must(t, [][]float64{{1}, {2}, {3}, {4}}, []float64{0}, []float64{100, 200, 300, 400})
	out, err := FrequencyAverage(s, 200)
	require.NoError(t, err)
	require.Len(t, out.Frequencies, 2)
	assert.Equal(t, 1.5, out.DynamicSpectra[0][0])
	assert.Equal(t, 3.5, out.DynamicSpectra[1][0])
}

func TestTimeChopRebaselinesAndFailsOnEmpty(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := New([][]float64{{1, 2, 3, 4}}, []float64{0, 1, 2, 3}, []float64{100}, Amplitude, base, "t")
	require.NoError(t, err)

	out, err := TimeChop(s, base.Add(time.Second), base.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, out.Times)
	assert.Equal(t, []float64{2, 3}, out.DynamicSpectra[0])

	_, err = TimeChop(s, base.Add(10*time.Second), base.Add(20*time.Second))
	require.Error(t, err)
}

func TestTimeChopReturnsInputWhenFullyContained(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := New([][]float64{{1, 2}}, []float64{0, 1}, []float64{100}, Amplitude, base, "t")
	require.NoError(t, err)

	out, err := TimeChop(s, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Same(t, s, out)
}

func TestJoinConcatenatesAlongTimeAxis(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s1, err := New([][]float64{{1, 2, 3}}, []float64{0, 0.25, 0.5}, []float64{100}, Amplitude, base, "t")
	require.NoError(t, err)
	s2, err := New([][]float64{{4, 5, 6}}, []float64{0, 0.25, 0.5}, []float64{100}, Amplitude, base.Add(time.Second), "t")
	require.NoError(t, err)
	s3, err := New([][]float64{{7, 8, 9}}, []float64{0, 0.25, 0.5}, []float64{100}, Amplitude, base.Add(2*time.Second), "t")
	require.NoError(t, err)

	joined, err := Join(s1, s2, s3)
	require.NoError(t, err)
	assert.Equal(t, base, joined.StartDatetime)
	assert.Equal(t, []float64{0, 0.25, 0.5, 1, 1.25, 1.5, 2, 2.25, 2.5}, joined.Times)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, joined.DynamicSpectra[0])
}

func TestJoinRejectsOverlap(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s1, err := New([][]float64{{1, 2}}, []float64{0, 1}, []float64{100}, Amplitude, base, "t")
	require.NoError(t, err)
	s2, err := New([][]float64{{3, 4}}, []float64{0, 1}, []float64{100}, Amplitude, base.Add(500*time.Millisecond), "t")
	require.NoError(t, err)

	_, err = Join(s1, s2)
	require.Error(t, err)
}

func TestJoinRejectsFrequencyMismatch(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s1, err := New([][]float64{{1}}, []float64{0}, []float64{100}, Amplitude, base, "t")
	require.NoError(t, err)
	s2, err := New([][]float64{{1}}, []float64{0}, []float64{200}, Amplitude, base.Add(time.Second), "t")
	require.NoError(t, err)

	_, err = Join(s1, s2)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC)
	s, err := New([][]float64{{1, 2}, {3, 4}}, []float64{0, 1}, []float64{88e6, 89e6}, Power, base, "fixed-sweep-01")
	require.NoError(t, err)

	path := dir + "/out.fits"
	meta := ObservatoryMeta{Origin: "SPECTRE", Telescope: "Test", Instrument: "rsp1a", Object: "Sun"}
	require.NoError(t, Save(s, path, meta))

	loaded, err := Load(path, "fixed-sweep-01")
	require.NoError(t, err)
	assert.Equal(t, Power, loaded.Unit)
	assert.Equal(t, base, loaded.StartDatetime)
	assert.InDeltaSlice(t, s.Frequencies, loaded.Frequencies, 1.0)
	assert.Equal(t, s.Times, loaded.Times)
	assert.Equal(t, s.DynamicSpectra, loaded.DynamicSpectra)
}
