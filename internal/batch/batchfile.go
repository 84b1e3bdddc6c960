package batch

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/spectrogram"
)

// IQMetadata is the decoded form of a .hdr file: the center frequencies and
// sample counts of a swept capture, in acquisition order.
type IQMetadata struct {
	CenterFrequencies []float32
	NumSamples        []int32
}

// File is a handle to one batch file on disk: a parent directory, a base
// name, and an extension, per spec.md §3.
type File struct {
	ParentDir string
	BaseName  string
	Extension string
}

func (f File) path() string {
	return filepath.Join(f.ParentDir, f.BaseName+"."+f.Extension)
}

// ReadIQ decodes fc32/fc64/sc8/sc16 payloads into complex64 samples.
func (f File) ReadIQ() ([]complex64, error) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return nil, fmt.Errorf("batch: read %q: %w", f.path(), err)
	}
	switch f.Extension {
	case "fc32":
		return decodeFC32(data)
	case "fc64":
		return decodeFC64(data)
	case "sc8":
		return decodeSC8(data)
	case "sc16":
		return decodeSC16(data)
	default:
		return nil, fmt.Errorf("batch: %q is not an I/Q extension", f.Extension)
	}
}

// ReadHeader decodes a .hdr payload into IQMetadata.
func (f File) ReadHeader() (IQMetadata, error) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return IQMetadata{}, fmt.Errorf("batch: read %q: %w", f.path(), err)
	}
	const recordSize = 8 // float32 + int32
	if len(data)%recordSize != 0 {
		return IQMetadata{}, fmt.Errorf("batch: %q has malformed .hdr length %d", f.path(), len(data))
	}
	n := len(data) / recordSize
	meta := IQMetadata{
		CenterFrequencies: make([]float32, n),
		NumSamples:        make([]int32, n),
	}
	for i := 0; i < n; i++ {
		off := i * recordSize
		meta.CenterFrequencies[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		meta.NumSamples[i] = int32(binary.LittleEndian.Uint32(data[off+4 : off+8]))
	}
	return meta, nil
}

// ReadSpectrogram decodes a .fits payload into a Spectrogram.
func (f File) ReadSpectrogram(tag string) (*spectrogram.Spectrogram, error) {
	return spectrogram.Load(f.path(), tag)
}

// Remove deletes the batch file from disk.
func (f File) Remove() error {
	if err := os.Remove(f.path()); err != nil {
		return fmt.Errorf("batch: remove %q: %w", f.path(), err)
	}
	return nil
}

func decodeFC32(data []byte) ([]complex64, error) {
	const sampleSize = 8 // float32 I + float32 Q
	if len(data)%sampleSize != 0 {
		return nil, fmt.Errorf("%w: fc32 payload length %d is not a multiple of %d", errs.ErrInvalidShape, len(data), sampleSize)
	}
	n := len(data) / sampleSize
	out := make([]complex64, n)
	for i := 0; i < n; i++ {
		off := i * sampleSize
		re := math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		out[i] = complex(re, im)
	}
	return out, nil
}

func decodeFC64(data []byte) ([]complex64, error) {
	const sampleSize = 16 // float64 I + float64 Q
	if len(data)%sampleSize != 0 {
		return nil, fmt.Errorf("%w: fc64 payload length %d is not a multiple of %d", errs.ErrInvalidShape, len(data), sampleSize)
	}
	n := len(data) / sampleSize
	out := make([]complex64, n)
	for i := 0; i < n; i++ {
		off := i * sampleSize
		re := math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(data[off+8 : off+16]))
		out[i] = complex(float32(re), float32(im))
	}
	return out, nil
}

func decodeSC8(data []byte) ([]complex64, error) {
	const sampleSize = 2 // int8 I + int8 Q
	if len(data)%sampleSize != 0 {
		return nil, fmt.Errorf("%w: sc8 payload length %d is not a multiple of %d", errs.ErrInvalidShape, len(data), sampleSize)
	}
	n := len(data) / sampleSize
	out := make([]complex64, n)
	for i := 0; i < n; i++ {
		off := i * sampleSize
		re := int8(data[off])
		im := int8(data[off+1])
		out[i] = complex(float32(re), float32(im))
	}
	return out, nil
}

func decodeSC16(data []byte) ([]complex64, error) {
	const sampleSize = 4 // int16 I + int16 Q
	if len(data)%sampleSize != 0 {
		return nil, fmt.Errorf("%w: sc16 payload length %d is not a multiple of %d", errs.ErrInvalidShape, len(data), sampleSize)
	}
	n := len(data) / sampleSize
	out := make([]complex64, n)
	for i := 0; i < n; i++ {
		off := i * sampleSize
		re := int16(binary.LittleEndian.Uint16(data[off : off+2]))
		im := int16(binary.LittleEndian.Uint16(data[off+2 : off+4]))
		out[i] = complex(float32(re), float32(im))
	}
	return out, nil
}

