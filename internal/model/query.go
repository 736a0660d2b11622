package model

// RetrievedSource is one ranked node returned by the retriever, in the
// collaborator's metadata conventions (filename, page_number, start, end).
type RetrievedSource struct {
	Text     string
	Score    *float64
	Metadata map[string]interface{}
}

// RetrievalResult is the raw retrieval response: a synthesized answer plus
// the ranked source nodes it was built from, highest relevance first.
type RetrievalResult struct {
	Answer  string
	Sources []RetrievedSource
}

// SourceRecord is the client-facing provenance entry for one retrieved
// source. At most one of Page and TimeRange is set; neither set means the
// provenance is unknown.
type SourceRecord struct {
	Filename  string     `json:"filename"`
	Snippet   string     `json:"snippet"`
	Score     *float64   `json:"score"`
	Page      *int       `json:"page,omitempty"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
}

// QueryResponse is the assembled answer returned to the querying client.
type QueryResponse struct {
	Answer  string         `json:"answer"`
	Sources []SourceRecord `json:"sources"`
}
