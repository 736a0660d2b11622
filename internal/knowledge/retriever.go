package knowledge

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Diluksha-Upeka/Neurospace/internal/driver"
	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

// Retrieve answers a question by vector-searching chunk embeddings and
// synthesizing over the best matches. Sources come back highest-similarity
// first; that order is the ranking contract downstream consumers rely on.
func (s *Service) Retrieve(ctx context.Context, question string) (*model.RetrievalResult, error) {
	if s.Embedder == nil {
		return nil, fmt.Errorf("retrieval requires an embedding-capable llm provider")
	}

	log.Printf("Vector searching for: %q", question)

	queryVector, err := s.Embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	result, err := s.Driver.ExecuteQuery(ctx, driver.VectorSearchQuery, map[string]interface{}{
		"limit":     s.topK,
		"embedding": queryVector,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	sources := make([]model.RetrievedSource, 0, len(result.Records))
	for _, record := range result.Records {
		textVal, _ := record.Get("text")
		text, _ := textVal.(string)

		src := model.RetrievedSource{
			Text:     text,
			Metadata: map[string]interface{}{},
		}

		if scoreVal, ok := record.Get("score"); ok && scoreVal != nil {
			if score, ok := scoreVal.(float64); ok {
				src.Score = &score
			}
		}

		for _, m := range []struct{ column, key string }{
			{"filename", "filename"},
			{"page_number", "page_number"},
			{"start_time", "start"},
			{"end_time", "end"},
		} {
			if v, ok := record.Get(m.column); ok && v != nil {
				src.Metadata[m.key] = v
			}
		}

		sources = append(sources, src)
	}

	answer, err := s.synthesize(ctx, question, sources)
	if err != nil {
		return nil, err
	}

	return &model.RetrievalResult{Answer: answer, Sources: sources}, nil
}

func (s *Service) synthesize(ctx context.Context, question string, sources []model.RetrievedSource) (string, error) {
	if len(sources) == 0 {
		return "I could not find anything relevant in the uploaded documents.", nil
	}

	var b strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, src.Text)
	}

	answer, err := s.LLM.Generate(ctx, fmt.Sprintf(synthesisPrompt, b.String(), question))
	if err != nil {
		return "", fmt.Errorf("failed to synthesize answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}
