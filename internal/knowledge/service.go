package knowledge

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Diluksha-Upeka/Neurospace/internal/config"
	"github.com/Diluksha-Upeka/Neurospace/internal/driver"
	"github.com/Diluksha-Upeka/Neurospace/internal/llm"
	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

type extractedEntity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type extractedRelation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

type extractionResult struct {
	Entities  []extractedEntity   `json:"entities"`
	Relations []extractedRelation `json:"relations"`
}

// fallbackRelationType absorbs off-schema relation output from the LLM so
// the graph only ever carries whitelisted relationship types.
const fallbackRelationType = "RELATED_TO"

// Service is the knowledge-extraction and retrieval subsystem: it persists
// text units as Chunk nodes with embeddings, extracts a schema-constrained
// entity/relation graph from them, and answers questions over the result.
type Service struct {
	Driver   driver.GraphDriver
	LLM      llm.LLMClient
	Embedder llm.EmbedderClient

	entities    []string
	relations   []string
	relationSet map[string]bool
	topK        int
}

func NewService(d driver.GraphDriver, llmClient llm.LLMClient, embedder llm.EmbedderClient,
	extraction config.ExtractionConfig, retrieval config.RetrievalConfig) *Service {
	topK := retrieval.TopK
	if topK <= 0 {
		topK = 3
	}

	relationSet := make(map[string]bool, len(extraction.Relations))
	for _, rel := range extraction.Relations {
		relationSet[strings.ToUpper(rel)] = true
	}

	return &Service{
		Driver:      d,
		LLM:         llmClient,
		Embedder:    embedder,
		entities:    extraction.Entities,
		relations:   extraction.Relations,
		relationSet: relationSet,
		topK:        topK,
	}
}

// Ingest persists the ordered text units for one document and extracts the
// entity graph from each. Persisting a chunk is mandatory; a failed LLM
// extraction only loses that chunk's graph enrichment and is logged.
func (s *Service) Ingest(ctx context.Context, units []model.TextUnit, documentID string) error {
	if len(units) == 0 {
		return fmt.Errorf("no text units for document '%s'", documentID)
	}

	log.Printf("Building knowledge graph for %s (%d units)...", documentID, len(units))

	for _, unit := range units {
		chunkUUID := uuid.New().String()
		if err := s.saveChunk(ctx, chunkUUID, unit, documentID); err != nil {
			return fmt.Errorf("failed to save chunk %d of '%s': %w", unit.Ordinal, documentID, err)
		}

		if err := s.extractGraph(ctx, chunkUUID, unit.Text); err != nil {
			log.Printf("Warning: graph extraction failed for chunk %d of %s: %v", unit.Ordinal, documentID, err)
		}
	}

	log.Printf("Graph built for %s", documentID)
	return nil
}

func (s *Service) saveChunk(ctx context.Context, chunkUUID string, unit model.TextUnit, documentID string) error {
	params := map[string]interface{}{
		"uuid":        chunkUUID,
		"text":        unit.Text,
		"ordinal":     unit.Ordinal,
		"filename":    unit.SourceFilename,
		"document_id": documentID,
		"page_number": nil,
		"start":       nil,
		"end":         nil,
		"created_at":  time.Now().UTC().Format(time.RFC3339),
		"embedding":   nil,
	}
	if unit.Page != nil {
		params["page_number"] = *unit.Page
	}
	if unit.TimeRange != nil {
		params["start"] = unit.TimeRange.Start
		params["end"] = unit.TimeRange.End
	}

	if s.Embedder != nil {
		vec, err := s.Embedder.Embed(ctx, unit.Text)
		if err != nil {
			log.Printf("Warning: embedding failed for chunk %d: %v", unit.Ordinal, err)
		} else {
			params["embedding"] = vec
		}
	}

	_, err := s.Driver.ExecuteQuery(ctx, driver.SaveChunkQuery, params)
	return err
}

func (s *Service) extractGraph(ctx context.Context, chunkUUID, text string) error {
	prompt := fmt.Sprintf(extractionPrompt,
		strings.Join(s.entities, ", "),
		strings.Join(s.relations, ", "),
		text)

	response, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to generate extraction: %w", err)
	}

	result, err := parseJSON[extractionResult](response)
	if err != nil {
		return fmt.Errorf("failed to parse extraction: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	for _, ent := range result.Entities {
		name := strings.TrimSpace(ent.Name)
		if name == "" {
			continue
		}

		params := map[string]interface{}{
			"uuid":        uuid.New().String(),
			"name":        name,
			"entity_type": ent.Type,
			"created_at":  now,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveEntityQuery, params); err != nil {
			return fmt.Errorf("failed to save entity '%s': %w", name, err)
		}

		edgeParams := map[string]interface{}{
			"uuid":        uuid.New().String(),
			"chunk_uuid":  chunkUUID,
			"entity_name": name,
			"created_at":  now,
		}
		if _, err := s.Driver.ExecuteQuery(ctx, driver.SaveMentionEdgeQuery, edgeParams); err != nil {
			return fmt.Errorf("failed to link chunk to entity '%s': %w", name, err)
		}
	}

	for _, rel := range result.Relations {
		if strings.TrimSpace(rel.Source) == "" || strings.TrimSpace(rel.Target) == "" {
			continue
		}

		// Only whitelisted relation types become relationship types; the
		// type is interpolated into the Cypher and must stay a closed set.
		relType := strings.ToUpper(strings.TrimSpace(rel.Relation))
		if !s.relationSet[relType] {
			relType = fallbackRelationType
		}

		params := map[string]interface{}{
			"uuid":        uuid.New().String(),
			"source_name": strings.TrimSpace(rel.Source),
			"target_name": strings.TrimSpace(rel.Target),
			"created_at":  now,
		}
		query := fmt.Sprintf(driver.SaveRelationEdgeQueryTemplate, relType)
		if _, err := s.Driver.ExecuteQuery(ctx, query, params); err != nil {
			return fmt.Errorf("failed to save relation %s-%s: %w", rel.Source, rel.Target, err)
		}
	}

	return nil
}
