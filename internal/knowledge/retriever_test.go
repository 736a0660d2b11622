package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchRecord(text, filename string, score float64, extra map[string]interface{}) *neo4j.Record {
	keys := []string{"text", "filename", "page_number", "start_time", "end_time", "score"}
	values := []interface{}{text, filename, nil, nil, nil, score}
	rec := &neo4j.Record{Keys: keys, Values: values}
	for k, v := range extra {
		for i, key := range keys {
			if key == k {
				rec.Values[i] = v
			}
		}
	}
	return rec
}

func TestRetrieveBuildsRankedSources(t *testing.T) {
	d := &mockDriver{results: map[string]neo4j.EagerResult{
		"db.index.vector.queryNodes": {Records: []*neo4j.Record{
			searchRecord("best chunk", "doc.pdf", 0.93, map[string]interface{}{"page_number": int64(4)}),
			searchRecord("timed chunk", "clip.mp4", 0.88, map[string]interface{}{"start_time": 12.0, "end_time": 18.5}),
			searchRecord("plain chunk", "doc.pdf", 0.71, nil),
		}},
	}}
	llm := &mockLLM{response: "Here is the synthesized answer."}

	svc := testService(d, llm, &mockEmbedder{vector: []float32{0.1, 0.9}})

	result, err := svc.Retrieve(context.Background(), "what happened?")
	require.NoError(t, err)

	assert.Equal(t, "Here is the synthesized answer.", result.Answer)
	require.Len(t, result.Sources, 3)

	first := result.Sources[0]
	assert.Equal(t, "best chunk", first.Text)
	require.NotNil(t, first.Score)
	assert.Equal(t, 0.93, *first.Score)
	assert.Equal(t, int64(4), first.Metadata["page_number"])
	assert.Equal(t, "doc.pdf", first.Metadata["filename"])
	assert.NotContains(t, first.Metadata, "start")

	second := result.Sources[1]
	assert.Equal(t, 12.0, second.Metadata["start"])
	assert.Equal(t, 18.5, second.Metadata["end"])
	assert.NotContains(t, second.Metadata, "page_number")

	// The synthesis prompt must include the retrieved context.
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "best chunk")
	assert.Contains(t, llm.prompts[0], "what happened?")

	// Top-k flows through to the vector query.
	searches := d.queriesContaining("db.index.vector.queryNodes")
	require.Len(t, searches, 1)
	assert.Equal(t, 3, searches[0].params["limit"])
}

func TestRetrieveWithoutEmbedderFails(t *testing.T) {
	svc := testService(&mockDriver{}, &mockLLM{}, nil)

	_, err := svc.Retrieve(context.Background(), "anything")

	assert.Error(t, err)
}

func TestRetrieveSurfacesSearchError(t *testing.T) {
	d := &mockDriver{err: errors.New("index missing")}
	svc := testService(d, &mockLLM{}, &mockEmbedder{vector: []float32{0.1}})

	_, err := svc.Retrieve(context.Background(), "anything")

	assert.Error(t, err)
}

func TestRetrieveEmptyIndexAnswersWithoutLLM(t *testing.T) {
	d := &mockDriver{}
	llm := &mockLLM{err: errors.New("should not be called")}
	svc := testService(d, llm, &mockEmbedder{vector: []float32{0.1}})

	result, err := svc.Retrieve(context.Background(), "anything")

	require.NoError(t, err)
	assert.Empty(t, result.Sources)
	assert.NotEmpty(t, result.Answer)
	assert.Empty(t, llm.prompts)
}

func TestRetrieveSurfacesEmbeddingError(t *testing.T) {
	svc := testService(&mockDriver{}, &mockLLM{}, &mockEmbedder{err: errors.New("provider down")})

	_, err := svc.Retrieve(context.Background(), "anything")

	assert.Error(t, err)
}
