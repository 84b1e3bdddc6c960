// Package batch implements the date-partitioned I/Q batch layer of spec.md
// §3/§4.4: batch file naming, per-extension decoding, and the tag-scoped
// Batches registry.
package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/jfitzpatrick/spectre/internal/errs"
)

const startTimeLayout = "2006-01-02T15:04:05"

// Name is the parsed form of a batch file's base name:
// <start_time>_<tag>.<ext>.
type Name struct {
	StartTime time.Time
	Tag       string
	Extension string
}

// ParseFileName parses a batch file's base name. The name must contain
// exactly one underscore and at most one dot.
func ParseFileName(name string) (Name, error) {
	if strings.Count(name, "_") != 1 {
		return Name{}, fmt.Errorf("%w: %q must contain exactly one underscore", errs.ErrBadBatchName, name)
	}
	if strings.Count(name, ".") > 1 {
		return Name{}, fmt.Errorf("%w: %q must contain at most one dot", errs.ErrBadBatchName, name)
	}

	underscoreIdx := strings.Index(name, "_")
	startPart := name[:underscoreIdx]
	rest := name[underscoreIdx+1:]

	start, err := time.Parse(startTimeLayout, startPart)
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q has an invalid start time: %v", errs.ErrBadBatchName, name, err)
	}

	tag := rest
	ext := ""
	if dotIdx := strings.Index(rest, "."); dotIdx >= 0 {
		tag = rest[:dotIdx]
		ext = rest[dotIdx+1:]
	}
	if tag == "" {
		return Name{}, fmt.Errorf("%w: %q has an empty tag", errs.ErrBadBatchName, name)
	}

	return Name{StartTime: start.UTC(), Tag: tag, Extension: ext}, nil
}

// Format is the inverse of ParseFileName.
func Format(startTime time.Time, tag, extension string) string {
	base := startTime.UTC().Format(startTimeLayout) + "_" + tag
	if extension == "" {
		return base
	}
	return base + "." + extension
}
