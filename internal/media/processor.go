package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"vicharcha/internal/domain"
	"vicharcha/internal/upload"
)

var ErrMediaNotFound = errors.New("story media not found")

type Config struct {
	ProcessedDir string
	FFmpegPath   string
	SoxPath      string
}

// Processor rebuilds the audio track of an uploaded video: extract, optionally
// denoise, enhance the voice band and re-encode, then mux back with the
// untouched video stream.
type Processor struct {
	processedDir string
	ffmpeg       string
	sox          string
	runner       Runner
	logger       *slog.Logger
}

func NewProcessor(cfg Config, runner Runner, logger *slog.Logger) *Processor {
	return &Processor{
		processedDir: cfg.ProcessedDir,
		ffmpeg:       cfg.FFmpegPath,
		sox:          cfg.SoxPath,
		runner:       runner,
		logger:       logger.With("component", "media"),
	}
}

// ProcessAudio writes the processed copy of inputPath to the processed dir
// as upload.ProcessedPrefix plus the input's file name.
func (p *Processor) ProcessAudio(ctx context.Context, inputPath, storyID string, settings domain.ProcessingSettings) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMediaNotFound, filepath.Base(inputPath))
	}

	if err := os.MkdirAll(p.processedDir, 0o755); err != nil {
		return "", fmt.Errorf("create processed dir: %w", err)
	}

	outputPath := filepath.Join(p.processedDir, upload.ProcessedPrefix+filepath.Base(inputPath))
	audioPath := p.tempPath("temp_%s.wav", storyID)
	noiseProfile := p.tempPath("noise_%s.prof", storyID)

	defer p.removeTemp(audioPath, noiseProfile)

	logger := p.logger.With("story_id", storyID)
	logger.Info("processing audio",
		"denoise", settings.ReduceNoise(),
		"enhance", settings.EnhanceAudio,
		"bitrate", settings.AudioBitrate,
	)

	err = p.runner.Run(ctx, p.ffmpeg,
		"-y", "-i", inputPath,
		"-vn", "-acodec", "pcm_s16le", "-ar", "44100", "-ac", "2",
		audioPath,
	)
	if err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}

	if settings.ReduceNoise() {
		if err := p.runner.Run(ctx, p.sox, audioPath, "-n", "trim", "0", "0.5", "noiseprof", noiseProfile); err != nil {
			return "", fmt.Errorf("build noise profile: %w", err)
		}
		denoised := p.tempPath("denoised_%s.wav", storyID)
		if err := p.step(ctx, p.sox, denoised, audioPath,
			audioPath, denoised, "noisered", noiseProfile, "0.21"); err != nil {
			return "", fmt.Errorf("reduce noise: %w", err)
		}
	}

	if settings.EnhanceAudio {
		enhanced := p.tempPath("enhanced_%s.wav", storyID)
		if err := p.step(ctx, p.sox, enhanced, audioPath,
			audioPath, enhanced,
			"equalizer", "100", "100h", "3",
			"equalizer", "2000", "2.5k", "3",
			"compand", "0.3,1", "6:-70,-60,-20", "-5", "-90", "0.2",
		); err != nil {
			return "", fmt.Errorf("enhance voice: %w", err)
		}
	}

	if settings.AudioBitrate > 0 {
		bitrated := p.tempPath("bitrated_%s.wav", storyID)
		if err := p.step(ctx, p.ffmpeg, bitrated, audioPath,
			"-y", "-i", audioPath, "-b:a", strconv.Itoa(settings.AudioBitrate)+"k", bitrated); err != nil {
			return "", fmt.Errorf("apply bitrate: %w", err)
		}
	}

	err = p.runner.Run(ctx, p.ffmpeg,
		"-y", "-i", inputPath, "-i", audioPath,
		"-c:v", "copy", "-c:a", "aac",
		"-map", "0:v:0", "-map", "1:a:0",
		outputPath,
	)
	if err != nil {
		return "", fmt.Errorf("merge audio: %w", err)
	}

	logger.Info("audio processed", "output", outputPath)
	return outputPath, nil
}

// step runs a tool writing to out and moves the result over target.
func (p *Processor) step(ctx context.Context, tool, out, target string, args ...string) error {
	if err := p.runner.Run(ctx, tool, args...); err != nil {
		os.Remove(out)
		return err
	}
	return os.Rename(out, target)
}

func (p *Processor) tempPath(pattern, storyID string) string {
	return filepath.Join(p.processedDir, fmt.Sprintf(pattern, storyID))
}

func (p *Processor) removeTemp(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn("failed to remove intermediate file", "path", path, "error", err)
		}
	}
}
