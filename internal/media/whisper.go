package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

// Transcriber turns an audio file into timed text segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error)
}

// WhisperTranscriber calls a Whisper endpoint through the OpenAI audio API.
// Pointing the base URL at a local whisper server that speaks the same
// protocol keeps transcription entirely on-machine.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

func NewWhisperTranscriber(apiKey, baseURL, modelName string) *WhisperTranscriber {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = openai.Whisper1
	}
	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(config),
		model:  modelName,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, &ExtractionError{Stage: "transcription", Err: fmt.Errorf("audio file not found: %s", audioPath)}
	}

	log.Printf("Transcribing %s...", audioPath)

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, &ExtractionError{Stage: "transcription", Err: err}
	}

	segments := make([]model.TranscriptSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, model.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	return &model.Transcript{
		Filename: filepath.Base(audioPath),
		Language: resp.Language,
		Segments: segments,
	}, nil
}
