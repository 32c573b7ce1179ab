// Package analysis runs the end-to-end pipeline for one recording: decode,
// resample, gate, frame, score, aggregate, decide, resolve. One Analyzer
// serves one loaded model; the three shipped model variants are the same
// pipeline under different Profiles.
package analysis

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LabelFormat selects how the model's companion label file is parsed.
type LabelFormat string

const (
	// LabelFormatLines is an indexed line file ("<index> <name...>").
	LabelFormatLines LabelFormat = "lines"
	// LabelFormatCSV is a header-skipped CSV whose last column is the
	// English class name.
	LabelFormatCSV LabelFormat = "csv"
)

// Profile is the variant descriptor: every constant that differs between
// the whole-clip, general-purpose and custom pipelines lives here, so the
// pipeline code itself has a single copy.
type Profile struct {
	Name string `yaml:"name"`

	// FrameLength is the window size in samples. Zero means "use the
	// classifier's declared input length".
	FrameLength int `yaml:"frame_length"`
	// HopFraction is the scan advance as a fraction of FrameLength.
	HopFraction float64 `yaml:"hop_fraction"`
	// MaxFrames caps inference cost per recording.
	MaxFrames int `yaml:"max_frames"`

	// ClipGateDB rejects the whole recording when its dBFS level falls
	// below it. FrameGateDB skips individual windows the same way. The
	// two values differ between variants and are kept apart on purpose.
	ClipGateDB  float64 `yaml:"clip_gate_db"`
	FrameGateDB float64 `yaml:"frame_gate_db"`

	// Confidence and Margin gate the averaged top score globally
	// (multi-frame variants). ScoreFloor instead gates each candidate
	// while building the top-K list (whole-clip variant); when it is
	// set, Confidence and Margin are not consulted.
	Confidence float64 `yaml:"confidence"`
	Margin     float64 `yaml:"margin"`
	ScoreFloor float64 `yaml:"score_floor"`

	// TopK bounds the verdict length.
	TopK int `yaml:"top_k"`

	// Translate maps English class names into the localized vocabulary;
	// Whitelist additionally restricts the verdict to instrument
	// categories. Both are only set for the general-purpose model.
	Translate bool `yaml:"translate"`
	Whitelist bool `yaml:"whitelist"`

	LabelFormat LabelFormat `yaml:"label_format"`
}

// WholeClipProfile is the Teachable Machine style variant: the entire
// fixed-size clip is one frame and every class above a small floor may
// enter the verdict.
func WholeClipProfile() Profile {
	return Profile{
		Name:        "whole-clip",
		HopFraction: 0.5,
		MaxFrames:   1,
		ClipGateDB:  -70,
		FrameGateDB: -70,
		ScoreFloor:  0.01,
		TopK:        3,
		LabelFormat: LabelFormatLines,
	}
}

// GeneralProfile is the general-purpose model: sliding windows, translated
// labels, instrument whitelist.
func GeneralProfile() Profile {
	return Profile{
		Name:        "general",
		HopFraction: 0.5,
		MaxFrames:   10,
		ClipGateDB:  -50,
		FrameGateDB: -55,
		Confidence:  0.35,
		Margin:      0.10,
		TopK:        5,
		Translate:   true,
		Whitelist:   true,
		LabelFormat: LabelFormatCSV,
	}
}

// CustomProfile is the user-trained model variant: sliding windows with the
// general thresholds, direct labels, no whitelist.
func CustomProfile() Profile {
	return Profile{
		Name:        "custom",
		HopFraction: 0.5,
		MaxFrames:   10,
		ClipGateDB:  -50,
		FrameGateDB: -55,
		Confidence:  0.35,
		Margin:      0.10,
		TopK:        5,
		LabelFormat: LabelFormatLines,
	}
}

// ProfileByName returns a preset profile, or false for unknown names.
func ProfileByName(name string) (Profile, bool) {
	switch name {
	case "whole-clip":
		return WholeClipProfile(), true
	case "general":
		return GeneralProfile(), true
	case "custom":
		return CustomProfile(), true
	}
	return Profile{}, false
}

// LoadProfile reads a profile descriptor from a YAML file. Missing fields
// default to the custom preset's values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("profile: read %s: %w", path, err)
	}
	p := CustomProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the descriptor's invariants.
func (p Profile) Validate() error {
	if p.HopFraction <= 0 || p.HopFraction > 1 {
		return fmt.Errorf("profile %q: hop_fraction must be in (0, 1], got %v", p.Name, p.HopFraction)
	}
	if p.MaxFrames <= 0 {
		return fmt.Errorf("profile %q: max_frames must be positive, got %d", p.Name, p.MaxFrames)
	}
	if p.TopK <= 0 {
		return fmt.Errorf("profile %q: top_k must be positive, got %d", p.Name, p.TopK)
	}
	if p.FrameLength < 0 {
		return fmt.Errorf("profile %q: frame_length must not be negative, got %d", p.Name, p.FrameLength)
	}
	switch p.LabelFormat {
	case LabelFormatLines, LabelFormatCSV:
	default:
		return fmt.Errorf("profile %q: unknown label_format %q", p.Name, p.LabelFormat)
	}
	return nil
}
