package knowledge

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executedQuery struct {
	query  string
	params map[string]interface{}
}

type mockDriver struct {
	executed []executedQuery
	results  map[string]neo4j.EagerResult // keyed by a distinctive query substring
	err      error
}

func (m *mockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.executed = append(m.executed, executedQuery{query: query, params: params})
	if m.err != nil {
		return neo4j.EagerResult{}, m.err
	}
	for key, result := range m.results {
		if strings.Contains(query, key) {
			return result, nil
		}
	}
	return neo4j.EagerResult{}, nil
}

func (m *mockDriver) BuildIndices(ctx context.Context) error { return nil }
func (m *mockDriver) Close(ctx context.Context) error        { return nil }

func (m *mockDriver) queriesContaining(substr string) []executedQuery {
	var out []executedQuery
	for _, q := range m.executed {
		if strings.Contains(q.query, substr) {
			out = append(out, q)
		}
	}
	return out
}

type mockLLM struct {
	response string
	prompts  []string
	err      error
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}
