package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSettings = errors.New("invalid processing settings")

// ProcessingSettings controls the audio post-processing of an uploaded video.
type ProcessingSettings struct {
	Quality       int  `json:"quality"`
	FrameRate     int  `json:"frameRate"`
	Denoise       bool `json:"denoise"`
	EnhanceAudio  bool `json:"enhanceAudio"`
	RemoveBgNoise bool `json:"removeBgNoise"`
	AudioBitrate  int  `json:"audioBitrate"` // kbps
}

func DefaultProcessingSettings() ProcessingSettings {
	return ProcessingSettings{
		Quality:      80,
		FrameRate:    30,
		AudioBitrate: 128,
	}
}

// WithDefaults fills zero numeric fields.
func (s ProcessingSettings) WithDefaults() ProcessingSettings {
	d := DefaultProcessingSettings()
	if s.Quality == 0 {
		s.Quality = d.Quality
	}
	if s.FrameRate == 0 {
		s.FrameRate = d.FrameRate
	}
	if s.AudioBitrate == 0 {
		s.AudioBitrate = d.AudioBitrate
	}
	return s
}

func (s ProcessingSettings) Validate() error {
	var problems []string
	if s.Quality < 1 || s.Quality > 100 {
		problems = append(problems, "quality must be between 1 and 100")
	}
	if s.FrameRate < 1 || s.FrameRate > 60 {
		problems = append(problems, "frame rate must be between 1 and 60")
	}
	if s.AudioBitrate < 64 || s.AudioBitrate > 320 {
		problems = append(problems, "audio bitrate must be between 64 and 320 kbps")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(problems, "; "))
	}
	return nil
}

// ReduceNoise reports whether the noise reduction step should run.
func (s ProcessingSettings) ReduceNoise() bool {
	return s.Denoise || s.RemoveBgNoise
}
