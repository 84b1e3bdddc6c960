package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/paths"
	"github.com/jfitzpatrick/spectre/internal/spectrogram"
)

// SpectrogramExtension is the extension that must back every Batch's
// spectrogram attribute.
const SpectrogramExtension = "fits"

// Batch groups the files that share one (start_time, tag) base name. One of
// its Files must be a .fits (spectrogram) file.
type Batch struct {
	StartTime time.Time
	Tag       string
	ParentDir string
	Files     map[string]File // keyed by extension
}

// File returns the batch's file for the given extension, if present.
func (b Batch) File(extension string) (File, bool) {
	f, ok := b.Files[extension]
	return f, ok
}

// HasSpectrogram reports whether this batch has a .fits file.
func (b Batch) HasSpectrogram() bool {
	_, ok := b.Files[SpectrogramExtension]
	return ok
}

// Spectrogram loads this batch's .fits file.
func (b Batch) Spectrogram() (*spectrogram.Spectrogram, error) {
	f, ok := b.Files[SpectrogramExtension]
	if !ok {
		return nil, fmt.Errorf("%w: batch %s has no spectrogram file", errs.ErrNoData, Format(b.StartTime, b.Tag, ""))
	}
	return f.ReadSpectrogram(b.Tag)
}

// Batches is a tag-scoped, lazily-refreshed, chronologically-sorted mapping
// from start_time to Batch.
type Batches struct {
	paths *paths.Paths
	tag   string

	order []time.Time
	byKey map[time.Time]*Batch
}

// New constructs an empty, unrefreshed Batches for the given tag.
func New(p *paths.Paths, tag string) *Batches {
	return &Batches{paths: p, tag: tag, byKey: make(map[time.Time]*Batch)}
}

// Refresh walks <batches_root>/[YYYY[/MM[/DD]]], filtered to this instance's
// tag, and rebuilds the sorted start_time → Batch mapping.
func (b *Batches) Refresh(year, month, day int) error {
	root, err := b.paths.BatchesDir(year, month, day)
	if err != nil {
		return err
	}

	grouped := make(map[time.Time]*Batch)
	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		parsed, parseErr := ParseFileName(info.Name())
		if parseErr != nil {
			return nil
		}
		if parsed.Tag != b.tag {
			return nil
		}
		bt, ok := grouped[parsed.StartTime]
		if !ok {
			bt = &Batch{
				StartTime: parsed.StartTime,
				Tag:       parsed.Tag,
				ParentDir: filepath.Dir(path),
				Files:     make(map[string]File),
			}
			grouped[parsed.StartTime] = bt
		}
		baseName := Format(parsed.StartTime, parsed.Tag, "")
		bt.Files[parsed.Extension] = File{
			ParentDir: bt.ParentDir,
			BaseName:  baseName,
			Extension: parsed.Extension,
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("batch: refresh: %w", walkErr)
	}

	order := make([]time.Time, 0, len(grouped))
	for start := range grouped {
		order = append(order, start)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	b.order = order
	b.byKey = grouped
	return nil
}

// List returns the Batches, chronologically sorted by start_time.
func (b *Batches) List() []*Batch {
	out := make([]*Batch, len(b.order))
	for i, start := range b.order {
		out[i] = b.byKey[start]
	}
	return out
}

// GetInRange returns the batches overlapping [tStart, tEnd]. A non-last
// batch b_i is included iff [b_i.start, next.start) intersects
// [tStart, tEnd]. The last batch's end is indeterminate — see DESIGN.md's
// Open Question decisions — so it is included whenever tStart ≤ last.start ≤
// tEnd, or whenever tStart is itself after the last batch's start.
func (b *Batches) GetInRange(tStart, tEnd time.Time) ([]*Batch, error) {
	if !tStart.Before(tEnd) {
		return nil, fmt.Errorf("%w: start %s is not before end %s", errs.ErrInvalidRange, tStart, tEnd)
	}

	var out []*Batch
	n := len(b.order)
	for i, start := range b.order {
		if i+1 == n {
			if includeLastBatch(tStart, tEnd, start) {
				out = append(out, b.byKey[start])
			}
			continue
		}
		next := b.order[i+1]
		if !start.After(tEnd) && next.After(tStart) {
			out = append(out, b.byKey[start])
		}
	}
	return out, nil
}

func includeLastBatch(tStart, tEnd, lastStart time.Time) bool {
	inBounds := !tStart.After(lastStart) && !lastStart.After(tEnd)
	return inBounds || tStart.After(lastStart)
}

// GetSpectrogram implements the six-step algorithm of spec.md §4.4: filter
// by range, keep only batches with a spectrogram file, load, chop, and join
// the survivors.
func (b *Batches) GetSpectrogram(tStart, tEnd time.Time) (*spectrogram.Spectrogram, error) {
	batches, err := b.GetInRange(tStart, tEnd)
	if err != nil {
		return nil, err
	}

	var survivors []*spectrogram.Spectrogram
	for _, bt := range batches {
		if !bt.HasSpectrogram() {
			continue
		}
		s, err := bt.Spectrogram()
		if err != nil {
			return nil, err
		}
		chopped, err := spectrogram.TimeChop(s, tStart, tEnd)
		if err != nil {
			continue
		}
		survivors = append(survivors, chopped)
	}

	if len(survivors) == 0 {
		return nil, fmt.Errorf("%w: no batches for tag %q overlap [%s, %s]", errs.ErrNoData, b.tag, tStart, tEnd)
	}

	return spectrogram.Join(survivors...)
}
