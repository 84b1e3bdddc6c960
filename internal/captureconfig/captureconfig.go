// Package captureconfig implements the tagged, persisted CaptureConfig JSON
// document of spec.md §3/§6.
package captureconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jfitzpatrick/spectre/internal/errs"
	"github.com/jfitzpatrick/spectre/internal/param"
	"github.com/jfitzpatrick/spectre/internal/paths"
)

// reservedTagSubstring must not appear in a tag, per spec.md §3/§9 ("no
// reserved substring (callisto)"). Only the stored-tag form is validated —
// see DESIGN.md's Open Question decisions.
const reservedTagSubstring = "callisto"

// CaptureConfig is the tagged document persisted at
// <configs_dir>/<tag>.json (spec.md §6).
type CaptureConfig struct {
	ReceiverName string         `json:"receiver_name"`
	ReceiverMode string         `json:"receiver_mode"`
	Parameters   map[string]any `json:"parameters"`
}

// ValidateTag enforces the two tag invariants of spec.md §3: no underscore,
// and no occurrence of the reserved substring "callisto".
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag must not be empty", errs.ErrInvalidParameter)
	}
	if strings.Contains(tag, "_") {
		return fmt.Errorf("%w: tag %q must not contain an underscore", errs.ErrInvalidParameter, tag)
	}
	if strings.Contains(tag, reservedTagSubstring) {
		return fmt.Errorf("%w: tag %q must not contain %q", errs.ErrInvalidParameter, tag, reservedTagSubstring)
	}
	return nil
}

// New builds a CaptureConfig from a receiver name, mode, and validated
// parameters, validating the tag.
func New(tag, receiverName, receiverMode string, parameters *param.Parameters) (string, *CaptureConfig, error) {
	if err := ValidateTag(tag); err != nil {
		return "", nil, err
	}
	return tag, &CaptureConfig{
		ReceiverName: receiverName,
		ReceiverMode: receiverMode,
		Parameters:   parameters.ToMap(),
	}, nil
}

// Write persists cfg as JSON at <configs_dir>/<tag>.json.
func Write(p *paths.Paths, tag string, cfg *CaptureConfig) error {
	if err := ValidateTag(tag); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("captureconfig: marshal %q: %w", tag, err)
	}
	if err := os.WriteFile(p.ConfigFilePath(tag), data, 0o644); err != nil {
		return fmt.Errorf("captureconfig: write %q: %w", tag, err)
	}
	return nil
}

// Read loads the CaptureConfig persisted for tag.
func Read(p *paths.Paths, tag string) (*CaptureConfig, error) {
	if err := ValidateTag(tag); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.ConfigFilePath(tag))
	if err != nil {
		return nil, fmt.Errorf("captureconfig: read %q: %w", tag, err)
	}
	var cfg CaptureConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("captureconfig: unmarshal %q: %w", tag, err)
	}
	return &cfg, nil
}

// ToParameters converts the persisted parameters map to a Parameters value.
func (c *CaptureConfig) ToParameters() *param.Parameters {
	return param.FromMap(c.Parameters)
}
