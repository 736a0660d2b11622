package ingest

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Diluksha-Upeka/Neurospace/internal/media"
	"github.com/Diluksha-Upeka/Neurospace/internal/model"
	"github.com/Diluksha-Upeka/Neurospace/internal/storage"
)

// Splitter splits extracted page text into bounded, overlapping chunks.
type Splitter interface {
	Split(text string) ([]string, error)
}

// PageExtractor yields the non-empty pages of a PDF in reading order.
type PageExtractor interface {
	Pages(pdfPath string) ([]model.Page, error)
}

// AudioExtractor derives an audio artifact from a video file.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// KnowledgeSink accepts a non-empty ordered list of text units for one
// document. It is called at most once per job.
type KnowledgeSink interface {
	Ingest(ctx context.Context, units []model.TextUnit, documentID string) error
}

// Orchestrator runs the per-upload background pipeline:
// backup → type-specific extraction → chunking → knowledge hand-off →
// deferred backup retry → cleanup. Failures are contained: nothing
// propagates to the caller, and the job's temp artifacts are removed on
// every exit path.
type Orchestrator struct {
	Store       storage.ObjectStore // nil when the store was unreachable at startup
	Audio       AudioExtractor
	Transcriber media.Transcriber
	PDF         PageExtractor
	Splitter    Splitter
	Sink        KnowledgeSink
}

// Run executes one ingestion job to completion. It never returns an error;
// the upload response was already sent before the job was dispatched.
func (o *Orchestrator) Run(ctx context.Context, job model.IngestJob) {
	log.Printf("Background job started for: %s", job.OriginalFilename)

	backedUp := false
	audioPath := ""

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Background job for %s panicked: %v", job.OriginalFilename, r)
		}

		// Single deferred retry widens the window for a transient storage
		// outage to recover without ever blocking extraction. A second
		// failure is accepted data loss once the temp file is gone.
		if !backedUp {
			if res := o.backup(ctx, job); res.status == stageOK {
				log.Printf("Backup retry succeeded for %s", job.OriginalFilename)
			} else {
				log.Printf("Backup retry failed for %s, file not backed up: %v", job.OriginalFilename, res.err)
			}
		}

		o.cleanup(job.TempFilePath, audioPath)
	}()

	if res := o.backup(ctx, job); res.status == stageOK {
		backedUp = true
	} else {
		log.Printf("Backup upload failed for %s (will retry after processing): %v", job.OriginalFilename, res.err)
	}

	units, derivedAudio, res := o.extract(ctx, job)
	audioPath = derivedAudio

	if res.status == stageFatal {
		log.Printf("Pipeline aborted for %s: %v", job.OriginalFilename, res.err)
		return
	}

	if len(units) == 0 {
		log.Printf("No text units produced for %s, skipping knowledge hand-off", job.OriginalFilename)
		return
	}

	if err := o.Sink.Ingest(ctx, units, job.OriginalFilename); err != nil {
		log.Printf("Knowledge hand-off failed for %s: %v", job.OriginalFilename, err)
	}
}

func (o *Orchestrator) backup(ctx context.Context, job model.IngestJob) stageResult {
	if o.Store == nil {
		return transient(errors.New("object store unavailable"))
	}
	if err := o.Store.Upload(ctx, job.TempFilePath, job.OriginalFilename); err != nil {
		return transient(err)
	}
	return ok()
}

// extract dispatches on the closed set of supported media kinds. An
// unsupported content type is a logged no-op, not an error.
func (o *Orchestrator) extract(ctx context.Context, job model.IngestJob) ([]model.TextUnit, string, stageResult) {
	switch model.KindOf(job.ContentType) {
	case model.MediaVideo:
		log.Printf("Running video pipeline for %s...", job.OriginalFilename)
		return o.extractVideo(ctx, job)

	case model.MediaDocument:
		log.Printf("Running PDF pipeline for %s...", job.OriginalFilename)
		units, res := o.extractDocument(job)
		return units, "", res

	default:
		log.Printf("Unsupported file type for %s: %s", job.OriginalFilename, job.ContentType)
		return nil, "", ok()
	}
}

func (o *Orchestrator) extractVideo(ctx context.Context, job model.IngestJob) ([]model.TextUnit, string, stageResult) {
	audioPath := deriveAudioPath(job.TempFilePath)

	if err := o.Audio.ExtractAudio(ctx, job.TempFilePath, audioPath); err != nil {
		return nil, audioPath, fatal(err)
	}

	transcript, err := o.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, audioPath, fatal(err)
	}

	units := make([]model.TextUnit, 0, len(transcript.Segments))
	for i, seg := range transcript.Segments {
		units = append(units, model.TextUnit{
			Text:           seg.Text,
			Ordinal:        i,
			SourceFilename: job.OriginalFilename,
			TimeRange:      &model.TimeRange{Start: seg.Start, End: seg.End},
		})
	}

	log.Printf("Video processed: %d segments (language: %s)", len(units), transcript.Language)
	return units, audioPath, ok()
}

func (o *Orchestrator) extractDocument(job model.IngestJob) ([]model.TextUnit, stageResult) {
	pages, err := o.PDF.Pages(job.TempFilePath)
	if err != nil {
		return nil, fatal(err)
	}

	var units []model.TextUnit
	ordinal := 0

	// One counter across all pages so ordinal order reconstructs reading
	// order for the whole document.
	for _, page := range pages {
		chunks, err := o.Splitter.Split(page.Text)
		if err != nil {
			return nil, fatal(err)
		}

		pageNumber := page.Number
		for _, chunk := range chunks {
			units = append(units, model.TextUnit{
				Text:           chunk,
				Ordinal:        ordinal,
				SourceFilename: job.OriginalFilename,
				Page:           &pageNumber,
			})
			ordinal++
		}
	}

	log.Printf("PDF processed: %d chunks from %d pages", len(units), len(pages))
	return units, ok()
}

func (o *Orchestrator) cleanup(tempPath, audioPath string) {
	if audioPath != "" {
		removeFile(audioPath)
	}
	removeFile(tempPath)
	log.Println("Cleanup complete")
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to remove %s: %v", path, err)
	}
}

func deriveAudioPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
}
