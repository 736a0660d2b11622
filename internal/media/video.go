package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// AudioExtractor strips the audio track from a video file by shelling out
// to ffmpeg.
type AudioExtractor struct {
	// FFmpegPath overrides PATH resolution when set.
	FFmpegPath string
}

func NewAudioExtractor(ffmpegPath string) *AudioExtractor {
	return &AudioExtractor{FFmpegPath: ffmpegPath}
}

func (a *AudioExtractor) locate() (string, error) {
	if a.FFmpegPath != "" {
		if _, err := os.Stat(a.FFmpegPath); err != nil {
			return "", fmt.Errorf("configured ffmpeg path '%s' not usable: %w", a.FFmpegPath, err)
		}
		return a.FFmpegPath, nil
	}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg executable not found; install ffmpeg or set FFMPEG_PATH: %w", err)
	}
	return path, nil
}

// ExtractAudio writes the audio stream of videoPath to audioPath.
// Arguments: -q:a 0 selects the highest VBR quality, -map a keeps only the
// audio stream, -y overwrites any existing output file.
func (a *AudioExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return &ExtractionError{Stage: "audio", Err: fmt.Errorf("video file not found: %s", videoPath)}
	}

	ffmpeg, err := a.locate()
	if err != nil {
		return &ExtractionError{Stage: "audio", Err: err}
	}

	log.Printf("Extracting audio from %s...", videoPath)

	cmd := exec.CommandContext(ctx, ffmpeg,
		"-i", videoPath,
		"-q:a", "0",
		"-map", "a",
		"-y",
		audioPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExtractionError{Stage: "audio", Err: err, Detail: stderr.String()}
	}

	log.Printf("Audio saved to %s", audioPath)
	return nil
}
