// Package postprocess implements the post-processing event handler state
// machine of spec.md §4.5: one filesystem-watch consumer per capture tag,
// deferring each newly-seen batch file by one so the capture worker has
// necessarily already closed it before this worker opens it (spec.md §5's
// sole read-while-write prevention mechanism).
package postprocess

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jfitzpatrick/spectre/internal/batch"
	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/spectrogram"
	"github.com/jfitzpatrick/spectre/internal/stfft"
)

// Config bundles the per-tag settings a Handler needs to turn batch files
// into persisted spectrograms.
type Config struct {
	Tag                 string
	WatchExtension      string
	Window              stfft.Window
	WindowSize          int
	Hop                 int
	SampleRate          float64
	CenterFrequency     float64
	Unit                spectrogram.Unit
	TimeResolution      float64
	FrequencyResolution float64
	TargetTimeRange     float64
	DeleteRawOnSuccess  bool
	Swept               bool

	// Save persists a flushed spectrogram. Supplied by the caller so the
	// handler stays agnostic of the batches-root path layout.
	Save func(s *spectrogram.Spectrogram) error
}

// Handler is the single-threaded event-handler state machine of spec.md
// §4.5: (tag, watch_extension, queued_file?, cached_spectrogram?).
type Handler struct {
	cfg    Config
	engine *stfft.Engine
	log    *slog.Logger

	queuedFile *batch.File
	cached     *spectrogram.Spectrogram
}

// New constructs a Handler for cfg. The FFT engine is built lazily on the
// first call to process, per spec.md §4.5 step 3, to avoid missing early
// filesystem events during worker start-up.
func New(cfg Config, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{cfg: cfg, log: log}
}

// OnCreated handles one filesystem create event for the file name in parentDir.
func (h *Handler) OnCreated(parentDir, name string) error {
	if !h.matchesWatchedName(name) {
		return nil
	}

	parsed, err := batch.ParseFileName(name)
	if err != nil {
		return nil
	}
	f := &batch.File{
		ParentDir: parentDir,
		BaseName:  batch.Format(parsed.StartTime, parsed.Tag, ""),
		Extension: parsed.Extension,
	}

	if h.queuedFile != nil {
		if err := h.process(h.queuedFile); err != nil {
			if flushErr := h.flush(); flushErr != nil {
				h.log.Error("flush after processing failure also failed", "error", flushErr)
			}
			return err
		}
	}
	h.queuedFile = f
	return nil
}

// matchesWatchedName rejects other tags' files and sibling extensions, per
// spec.md §4.5 step 1.
func (h *Handler) matchesWatchedName(name string) bool {
	suffix := fmt.Sprintf("_%s.%s", h.cfg.Tag, h.cfg.WatchExtension)
	return strings.HasSuffix(name, suffix)
}

// process runs one batch file through STFFT, averaging, and cache-append,
// flushing when the cache reaches the configured target time range.
func (h *Handler) process(f *batch.File) error {
	parsed, err := batch.ParseFileName(f.BaseName + "." + f.Extension)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrProcessing, err)
	}

	samples, err := f.ReadIQ()
	if err != nil {
		return fmt.Errorf("%w: reading I/Q samples: %v", errs.ErrProcessing, err)
	}

	start := parsed.StartTime
	if h.cfg.Swept {
		hdrFile := batch.File{ParentDir: f.ParentDir, BaseName: f.BaseName, Extension: "hdr"}
		if _, err := hdrFile.ReadHeader(); err != nil {
			h.log.Warn("swept mode batch is missing its .hdr metadata", "batch", f.BaseName, "error", err)
		}
	}

	if h.engine == nil {
		h.engine, err = stfft.NewEngine(h.cfg.Window, h.cfg.WindowSize, h.cfg.Hop)
		if err != nil {
			return fmt.Errorf("%w: building FFT engine: %v", errs.ErrProcessing, err)
		}
	}

	complexSamples := make([]complex128, len(samples))
	for i, s := range samples {
		complexSamples[i] = complex(float64(real(s)), float64(imag(s)))
	}

	s, err := h.engine.Run(complexSamples, h.cfg.SampleRate, h.cfg.CenterFrequency, start, h.cfg.Unit, h.cfg.Tag)
	if err != nil {
		return fmt.Errorf("%w: running STFFT: %v", errs.ErrProcessing, err)
	}

	s, err = spectrogram.TimeAverage(s, h.cfg.TimeResolution)
	if err != nil {
		return fmt.Errorf("%w: time averaging: %v", errs.ErrProcessing, err)
	}
	s, err = spectrogram.FrequencyAverage(s, h.cfg.FrequencyResolution)
	if err != nil {
		return fmt.Errorf("%w: frequency averaging: %v", errs.ErrProcessing, err)
	}

	if h.cfg.DeleteRawOnSuccess {
		if err := f.Remove(); err != nil {
			h.log.Warn("failed to delete raw batch file after processing", "batch", f.BaseName, "error", err)
		}
	}

	if h.cached == nil {
		h.cached = s
	} else {
		joined, joinErr := spectrogram.Join(h.cached, s)
		if joinErr != nil {
			// Monotonic assumption violated (spec.md §5): flush what we have
			// and continue with the new spectrogram starting a fresh cache.
			if flushErr := h.flush(); flushErr != nil {
				h.log.Error("partial flush after join failure also failed", "error", flushErr)
			}
			h.cached = s
			return nil
		}
		h.cached = joined
	}

	if h.cached.TimeRange() >= h.cfg.TargetTimeRange {
		return h.flush()
	}
	return nil
}

// flush persists the cache as FITS and clears it, per spec.md §4.5.
func (h *Handler) flush() error {
	if h.cached == nil {
		return nil
	}
	if err := h.cfg.Save(h.cached); err != nil {
		return fmt.Errorf("%w: saving cached spectrogram: %v", errs.ErrProcessing, err)
	}
	h.cached = nil
	return nil
}

// Flush exposes flush for callers that need to persist the cache at
// shutdown (e.g. on worker termination).
func (h *Handler) Flush() error {
	return h.flush()
}
