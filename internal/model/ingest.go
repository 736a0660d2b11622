package model

import "strings"

// IngestJob describes one uploaded file handed to the background pipeline.
// The job owns its temp file; the orchestrator deletes it when the job ends.
type IngestJob struct {
	TempFilePath     string
	OriginalFilename string
	ContentType      string
}

// MediaKind is the closed set of media types the pipeline dispatches on.
type MediaKind int

const (
	MediaUnsupported MediaKind = iota
	MediaVideo
	MediaDocument
)

func (k MediaKind) String() string {
	switch k {
	case MediaVideo:
		return "video"
	case MediaDocument:
		return "document"
	default:
		return "unsupported"
	}
}

// KindOf maps an upload content type onto a MediaKind.
func KindOf(contentType string) MediaKind {
	switch {
	case strings.Contains(contentType, "video"):
		return MediaVideo
	case strings.Contains(contentType, "pdf"):
		return MediaDocument
	default:
		return MediaUnsupported
	}
}

// TimeRange locates a span of transcribed speech within its source media.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TextUnit is a bounded span of extracted text plus provenance, the unit
// handed to knowledge extraction. Ordinals increase monotonically across a
// whole job so they reconstruct reading order. Page and TimeRange are
// mutually exclusive: page for document-derived text, time range for
// media-derived text.
type TextUnit struct {
	Text           string
	Ordinal        int
	SourceFilename string
	Page           *int
	TimeRange      *TimeRange
}

// Page is one PDF page's raw text. Number is the 1-based page position in
// the source document; pages with empty text are never represented.
type Page struct {
	Number int
	Text   string
}

// TranscriptSegment is one timed span of recognized speech.
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// Transcript is the ordered output of the transcription engine.
type Transcript struct {
	Filename string
	Language string
	Segments []TranscriptSegment
}
