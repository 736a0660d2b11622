package evidence

import (
	"math"

	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

const DefaultSnippetLength = 150

// Assembler turns a raw retrieval response into the client-facing answer
// payload, tagging each source with its provenance.
type Assembler struct {
	snippetLength int
}

func NewAssembler(snippetLength int) *Assembler {
	if snippetLength <= 0 {
		snippetLength = DefaultSnippetLength
	}
	return &Assembler{snippetLength: snippetLength}
}

// Assemble preserves the collaborator's ranking order; sources are never
// re-sorted. Each record carries at most one of page / time range, and a
// record with neither is valid (provenance unknown).
func (a *Assembler) Assemble(answer string, sources []model.RetrievedSource) model.QueryResponse {
	records := make([]model.SourceRecord, 0, len(sources))

	for _, src := range sources {
		rec := model.SourceRecord{
			Snippet: a.snippet(src.Text),
		}

		if name, ok := src.Metadata["filename"].(string); ok {
			rec.Filename = name
		}

		if src.Score != nil {
			rounded := math.Round(*src.Score*1000) / 1000
			rec.Score = &rounded
		}

		if page, ok := asInt(src.Metadata["page_number"]); ok {
			rec.Page = &page
		} else {
			start, okStart := asFloat(src.Metadata["start"])
			end, okEnd := asFloat(src.Metadata["end"])
			if okStart && okEnd {
				rec.TimeRange = &model.TimeRange{Start: start, End: end}
			}
		}

		records = append(records, rec)
	}

	return model.QueryResponse{Answer: answer, Sources: records}
}

func (a *Assembler) snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= a.snippetLength {
		return text
	}
	return string(runes[:a.snippetLength]) + "..."
}

// asInt accepts the integer encodings the bolt driver and JSON layers
// produce for the same property.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
