package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Diluksha-Upeka/Neurospace/internal/evidence"
	"github.com/Diluksha-Upeka/Neurospace/internal/model"
)

type fakeIngestor struct {
	jobs []model.IngestJob
}

func (f *fakeIngestor) Run(ctx context.Context, job model.IngestJob) {
	f.jobs = append(f.jobs, job)
}

// inlinePool runs submitted jobs synchronously so tests can assert on them.
type inlinePool struct {
	err error
}

func (p *inlinePool) Submit(task func()) error {
	if p.err != nil {
		return p.err
	}
	task()
	return nil
}

type fakeRetriever struct {
	result *model.RetrievalResult
	err    error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, question string) (*model.RetrievalResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeProjector struct {
	view *model.GraphView
	err  error
}

func (f *fakeProjector) Project(ctx context.Context, limit int) (*model.GraphView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func testServer(t *testing.T) (*Server, *fakeIngestor, *fakeRetriever, *fakeProjector) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ingestor := &fakeIngestor{}
	retriever := &fakeRetriever{result: &model.RetrievalResult{Answer: "answer"}}
	projector := &fakeProjector{view: &model.GraphView{Nodes: []model.GraphNode{}, Edges: []model.GraphEdge{}}}

	s := &Server{
		Ingestor:  ingestor,
		Pool:      &inlinePool{},
		Retriever: retriever,
		Assembler: evidence.NewAssembler(150),
		Projector: projector,
		TempDir:   t.TempDir(),
	}
	return s, ingestor, retriever, projector
}

func uploadRequest(t *testing.T, filename, contentType string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("file payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadAcceptsPDFAndDispatchesJob(t *testing.T) {
	s, ingestor, _, _ := testServer(t)
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "lecture.pdf", "application/pdf"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "processing", resp["status"])
	assert.Equal(t, "lecture.pdf", resp["filename"])
	assert.NotEmpty(t, resp["message"])

	require.Len(t, ingestor.jobs, 1)
	job := ingestor.jobs[0]
	assert.Equal(t, "lecture.pdf", job.OriginalFilename)
	assert.Equal(t, "application/pdf", job.ContentType)
	assert.True(t, strings.HasPrefix(strings.TrimPrefix(job.TempFilePath, s.TempDir+"/"), "temp_"))

	// The upload was persisted before the job was dispatched.
	_, err := os.Stat(job.TempFilePath)
	assert.NoError(t, err)
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	s, ingestor, _, _ := testServer(t)
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "notes.txt", "text/plain"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ingestor.jobs)
}

func TestUploadRequiresFile(t *testing.T) {
	s, _, _, _ := testServer(t)
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadSchedulingFailure(t *testing.T) {
	s, ingestor, _, _ := testServer(t)
	s.Pool = &inlinePool{err: errors.New("pool closed")}
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "clip.mp4", "video/mp4"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, ingestor.jobs)
}

func TestQueryReturnsAssembledAnswer(t *testing.T) {
	s, _, retriever, _ := testServer(t)
	score := 0.87654
	retriever.result = &model.RetrievalResult{
		Answer: "synthesized",
		Sources: []model.RetrievedSource{
			{Text: "source text", Score: &score, Metadata: map[string]interface{}{"filename": "doc.pdf", "page_number": 2}},
		},
	}
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question": "what?"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "synthesized", resp.Answer)
	require.Len(t, resp.Sources, 1)
	require.NotNil(t, resp.Sources[0].Score)
	assert.Equal(t, 0.877, *resp.Sources[0].Score)
	require.NotNil(t, resp.Sources[0].Page)
	assert.Equal(t, 2, *resp.Sources[0].Page)
}

func TestQueryCollaboratorFailureIsClientVisible(t *testing.T) {
	s, _, retriever, _ := testServer(t)
	retriever.err = errors.New("vector index unavailable")
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question": "what?"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQueryRequiresQuestion(t *testing.T) {
	s, _, _, _ := testServer(t)
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphRejectsBadLimit(t *testing.T) {
	s, _, _, _ := testServer(t)
	r := s.SetupRouter()

	for _, limit := range []string{"abc", "-5", "0"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/graph?limit="+limit, nil)
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit %q", limit)
	}
}

func TestGraphReturnsProjection(t *testing.T) {
	s, _, _, projector := testServer(t)
	projector.view = &model.GraphView{
		Nodes: []model.GraphNode{{ID: "1", Label: "Alice", Group: "Entity"}},
		Edges: []model.GraphEdge{{ID: "r1", Source: "1", Target: "2", Label: "MENTIONS"}},
	}
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view model.GraphView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, "Alice", view.Nodes[0].Label)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, "MENTIONS", view.Edges[0].Label)
}

func TestHealth(t *testing.T) {
	s, _, _, _ := testServer(t)
	r := s.SetupRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active")
}
