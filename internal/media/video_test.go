package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAudioMissingInputIsExtractionError(t *testing.T) {
	a := NewAudioExtractor("")

	err := a.ExtractAudio(context.Background(), "/nonexistent/video.mp4", "/tmp/out.mp3")

	require.Error(t, err)
	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, "audio", exErr.Stage)
}

func TestExtractAudioMissingDecoderIsExtractionError(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("not a real video"), 0o644))

	a := NewAudioExtractor(filepath.Join(dir, "no-such-ffmpeg"))

	err := a.ExtractAudio(context.Background(), videoPath, filepath.Join(dir, "clip.mp3"))

	require.Error(t, err)
	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
	assert.Contains(t, exErr.Error(), "no-such-ffmpeg")
}

func TestExtractAudioSubprocessFailureCapturesStderr(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("payload"), 0o644))

	// A fake decoder that writes to stderr and exits non-zero.
	fake := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho 'invalid data found' >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0o755))

	a := NewAudioExtractor(fake)

	err := a.ExtractAudio(context.Background(), videoPath, filepath.Join(dir, "clip.mp3"))

	require.Error(t, err)
	var exErr *ExtractionError
	require.True(t, errors.As(err, &exErr))
	assert.Contains(t, exErr.Detail, "invalid data found")
}

func TestExtractAudioArgContract(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("payload"), 0o644))

	// A fake decoder that records its arguments.
	argsFile := filepath.Join(dir, "args.txt")
	fake := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\nexit 0\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0o755))

	a := NewAudioExtractor(fake)
	audioPath := filepath.Join(dir, "clip.mp3")

	require.NoError(t, a.ExtractAudio(context.Background(), videoPath, audioPath))

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := string(recorded)
	assert.Contains(t, args, "-i "+videoPath)
	assert.Contains(t, args, "-q:a 0")
	assert.Contains(t, args, "-map a")
	assert.Contains(t, args, "-y")
	assert.Contains(t, args, audioPath)
}
