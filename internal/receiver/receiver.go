// Package receiver implements the Receiver registry of spec.md §4.7: a
// static table mapping (receiver name, mode) to the capture template,
// validator, and flowgraph/event-handler launchers that drive one capture
// session, replacing the original decorator-driven class registry with
// explicit registration calls (spec.md §9).
package receiver

import (
	"fmt"

	"github.com/jfitzpatrick/spectre/internal/captureconfig"
	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/param"
	"github.com/jfitzpatrick/spectre/internal/paths"
)

// Flowgraph launches the vendor DSP pipeline that produces I/Q batch files
// for one capture session, running to termination.
type Flowgraph func(cfg *captureconfig.CaptureConfig) error

// PostProcessor mounts a filesystem observer scoped to the batches root and
// the watch extension implied by the mode, consuming batch files into
// spectrograms.
type PostProcessor func(p *paths.Paths, cfg *captureconfig.CaptureConfig) error

// Mode is one operating mode of a Receiver: its parameter template, a
// validator beyond what the template already enforces, the extension its
// capture worker emits, and the launchers for both workers.
type Mode struct {
	Name            string
	Template        *param.CaptureTemplate
	Validate        func(*param.Parameters) error
	WatchExtension  string
	Flowgraph       Flowgraph
	PostProcessor   PostProcessor
}

// Receiver is a named collection of Modes, e.g. "rsp1a" with modes
// "fixed_center_frequency" and "swept_center_frequency".
type Receiver struct {
	Name  string
	Modes map[string]Mode
}

// New constructs a Receiver from its modes.
func New(name string, modes ...Mode) Receiver {
	byName := make(map[string]Mode, len(modes))
	for _, m := range modes {
		byName[m.Name] = m
	}
	return Receiver{Name: name, Modes: byName}
}

// Registry is the static (receiver name → Receiver) table, populated at
// process start-up by explicit Register calls.
type Registry struct {
	receivers map[string]Receiver
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{receivers: make(map[string]Receiver)}
}

// Register adds r to the registry, keyed by its name.
func (reg *Registry) Register(r Receiver) {
	reg.receivers[r.Name] = r
}

// Get looks up a receiver and one of its modes by name.
func (reg *Registry) Get(receiverName, modeName string) (Receiver, Mode, error) {
	r, ok := reg.receivers[receiverName]
	if !ok {
		return Receiver{}, Mode{}, fmt.Errorf("%w: %q", errs.ErrReceiverNotFound, receiverName)
	}
	m, ok := r.Modes[modeName]
	if !ok {
		return Receiver{}, Mode{}, fmt.Errorf("%w: %q has no mode %q", errs.ErrModeNotFound, receiverName, modeName)
	}
	return r, m, nil
}

// ValidateParameters applies the mode's capture template and then its additional
// validator, per spec.md §4.7 ("flowgraph-template ∘ event-handler-template;
// event-handler-template wins on conflicts") — here modelled as template
// application followed by a mode-specific validation pass that may tighten
// (never loosen) what the template already allows.
func (m Mode) ValidateParameters(p *param.Parameters) (*param.Parameters, error) {
	applied, err := m.Template.Apply(p)
	if err != nil {
		return nil, err
	}
	if m.Validate != nil {
		if err := m.Validate(applied); err != nil {
			return nil, err
		}
	}
	return applied, nil
}

// WriteConfig validates parameters against the mode and persists the
// resulting CaptureConfig under tag.
func (reg *Registry) WriteConfig(p *paths.Paths, tag, receiverName, modeName string, parameters *param.Parameters) error {
	_, mode, err := reg.Get(receiverName, modeName)
	if err != nil {
		return err
	}
	validated, err := mode.ValidateParameters(parameters)
	if err != nil {
		return err
	}
	_, cfg, err := captureconfig.New(tag, receiverName, modeName, validated)
	if err != nil {
		return err
	}
	return captureconfig.Write(p, tag, cfg)
}

// ReadConfig loads the CaptureConfig persisted for tag.
func (reg *Registry) ReadConfig(p *paths.Paths, tag string) (*captureconfig.CaptureConfig, error) {
	return captureconfig.Read(p, tag)
}

// ActivateFlowgraph runs the capture mode's flowgraph to termination.
func (reg *Registry) ActivateFlowgraph(cfg *captureconfig.CaptureConfig) error {
	_, mode, err := reg.Get(cfg.ReceiverName, cfg.ReceiverMode)
	if err != nil {
		return err
	}
	if mode.Flowgraph == nil {
		return fmt.Errorf("%w: %q/%q has no flowgraph", errs.ErrModeNotFound, cfg.ReceiverName, cfg.ReceiverMode)
	}
	return mode.Flowgraph(cfg)
}

// ActivatePostProcessing mounts the capture mode's post-processing observer.
func (reg *Registry) ActivatePostProcessing(p *paths.Paths, cfg *captureconfig.CaptureConfig) error {
	_, mode, err := reg.Get(cfg.ReceiverName, cfg.ReceiverMode)
	if err != nil {
		return err
	}
	if mode.PostProcessor == nil {
		return fmt.Errorf("%w: %q/%q has no post-processor", errs.ErrModeNotFound, cfg.ReceiverName, cfg.ReceiverMode)
	}
	return mode.PostProcessor(p, cfg)
}
