package ingest

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

type fakeStore struct {
	failing bool
	calls   int
	objects []string
}

func (s *fakeStore) Upload(ctx context.Context, localPath, objectName string) error {
	s.calls++
	if s.failing {
		return errors.New("connection refused")
	}
	s.objects = append(s.objects, objectName)
	return nil
}

func (s *fakeStore) Download(ctx context.Context, objectName, localPath string) error {
	return errors.New("not implemented")
}

type fakeAudioExtractor struct {
	err error
}

func (a *fakeAudioExtractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	if a.err != nil {
		return a.err
	}
	return os.WriteFile(audioPath, []byte("audio"), 0o644)
}

type fakeTranscriber struct {
	segments []model.TranscriptSegment
	err      error
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &model.Transcript{Filename: audioPath, Language: "en", Segments: t.segments}, nil
}

type fakePDFExtractor struct {
	pages []model.Page
	err   error
}

func (p *fakePDFExtractor) Pages(pdfPath string) ([]model.Page, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.pages, nil
}

// fakeSplitter cuts on pipes so tests control chunk boundaries exactly.
type fakeSplitter struct {
	err error
}

func (s *fakeSplitter) Split(text string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return strings.Split(text, "|"), nil
}

type fakeSink struct {
	calls      int
	units      []model.TextUnit
	documentID string
	err        error
}

func (s *fakeSink) Ingest(ctx context.Context, units []model.TextUnit, documentID string) error {
	s.calls++
	s.units = units
	s.documentID = documentID
	return s.err
}
