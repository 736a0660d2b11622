package server

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Diluksha-Upeka/Neurospace/internal/chunker"
	"github.com/Diluksha-Upeka/Neurospace/internal/config"
	"github.com/Diluksha-Upeka/Neurospace/internal/driver"
	"github.com/Diluksha-Upeka/Neurospace/internal/evidence"
	"github.com/Diluksha-Upeka/Neurospace/internal/graphviz"
	"github.com/Diluksha-Upeka/Neurospace/internal/ingest"
	"github.com/Diluksha-Upeka/Neurospace/internal/knowledge"
	"github.com/Diluksha-Upeka/Neurospace/internal/llm"
	"github.com/Diluksha-Upeka/Neurospace/internal/media"
	"github.com/Diluksha-Upeka/Neurospace/internal/model"
	"github.com/Diluksha-Upeka/Neurospace/internal/storage"
)

// Ingestor runs one background ingestion job to completion.
type Ingestor interface {
	Run(ctx context.Context, job model.IngestJob)
}

// Retriever answers a question from the knowledge store.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (*model.RetrievalResult, error)
}

// GraphProjector renders a bounded view of the knowledge graph.
type GraphProjector interface {
	Project(ctx context.Context, limit int) (*model.GraphView, error)
}

// JobSubmitter dispatches a job onto the background worker pool.
type JobSubmitter interface {
	Submit(task func()) error
}

type Server struct {
	Ingestor  Ingestor
	Pool      JobSubmitter
	Retriever Retriever
	Assembler *evidence.Assembler
	Projector GraphProjector
	TempDir   string

	graphDriver driver.GraphDriver
	jobPool     *ingest.Pool
}

// NewServer wires every component from configuration. Unreachable Neo4j or
// a broken LLM provider is fatal. An unreachable object store is not: the
// pipeline degrades to local-only processing with per-job backup retries.
func NewServer(cfg *config.Config) *Server {
	d, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password,
		cfg.Neo4j.Database, cfg.LLM.EmbeddingDimensions)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}

	if err := d.BuildIndices(context.Background()); err != nil {
		log.Fatalf("Failed to build indices: %v", err)
	}

	llmClient, embedder, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	var store storage.ObjectStore
	if s, err := storage.NewMinIOStore(context.Background(), cfg.Storage); err != nil {
		log.Printf("Warning: object store unavailable, backups disabled: %v", err)
	} else {
		store = s
	}

	pool, err := ingest.NewPool(cfg.Ingest.Workers)
	if err != nil {
		log.Fatalf("Failed to create worker pool: %v", err)
	}

	svc := knowledge.NewService(d, llmClient, embedder, cfg.Extraction, cfg.Retrieval)

	whisperKey := cfg.Media.WhisperAPIKey
	if whisperKey == "" {
		whisperKey = cfg.LLM.APIKey
	}

	orch := &ingest.Orchestrator{
		Store:       store,
		Audio:       media.NewAudioExtractor(cfg.Media.FFmpegPath),
		Transcriber: media.NewWhisperTranscriber(whisperKey, cfg.Media.WhisperBaseURL, cfg.Media.WhisperModel),
		PDF:         media.NewPDFExtractor(),
		Splitter:    chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap),
		Sink:        svc,
	}

	return &Server{
		Ingestor:    orch,
		Pool:        pool,
		Retriever:   svc,
		Assembler:   evidence.NewAssembler(cfg.Retrieval.SnippetLength),
		Projector:   graphviz.NewProjector(d),
		TempDir:     cfg.Server.TempDir,
		graphDriver: d,
		jobPool:     pool,
	}
}

// Shutdown drains in-flight ingestion jobs, then closes the graph driver.
func (s *Server) Shutdown(ctx context.Context) {
	if s.jobPool != nil {
		s.jobPool.Wait()
		s.jobPool.Release()
	}
	if s.graphDriver != nil {
		if err := s.graphDriver.Close(ctx); err != nil {
			log.Printf("Warning: failed to close graph driver: %v", err)
		}
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/", s.Health)
	r.POST("/upload", s.Upload)
	r.POST("/query", s.Query)
	r.GET("/graph", s.Graph)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "active", "system": "NeuroSpace Graph Engine"})
}

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"video/mp4":       true,
}

// Upload accepts exactly one PDF or MP4 file, persists it to a temp path
// and dispatches a background job. The response is an acknowledgement;
// pipeline failures never reach this caller.
func (s *Server) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one file is required"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, expected application/pdf or video/mp4"})
		return
	}

	filename := filepath.Base(file.Filename)
	tempPath := filepath.Join(s.TempDir, "temp_"+filename)

	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		log.Printf("Failed to persist upload %s: %v", filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded file"})
		return
	}

	job := model.IngestJob{
		TempFilePath:     tempPath,
		OriginalFilename: filename,
		ContentType:      contentType,
	}

	if err := s.Pool.Submit(func() {
		s.Ingestor.Run(context.Background(), job)
	}); err != nil {
		log.Printf("Failed to dispatch job for %s: %v", filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule processing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "processing",
		"filename": filename,
		"message":  "File received and queued for knowledge extraction",
	})
}

type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// Query is the synchronous retrieval path: collaborator failures surface
// to the caller instead of degrading silently.
func (s *Server) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := s.Retriever.Retrieve(c.Request.Context(), req.Question)
	if err != nil {
		log.Printf("Retrieval failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to answer question"})
		return
	}

	c.JSON(http.StatusOK, s.Assembler.Assemble(result.Answer, result.Sources))
}

func (s *Server) Graph(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}

	view, err := s.Projector.Project(c.Request.Context(), limit)
	if err != nil {
		log.Printf("Graph projection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch graph"})
		return
	}

	c.JSON(http.StatusOK, view)
}
