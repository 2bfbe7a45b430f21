package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
	"github.com/BerylCAtieno/requirements-testgen/internal/export"
	"github.com/BerylCAtieno/requirements-testgen/internal/generator"
	"github.com/BerylCAtieno/requirements-testgen/internal/models"
	"github.com/BerylCAtieno/requirements-testgen/internal/repository"
	"github.com/BerylCAtieno/requirements-testgen/internal/storage"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

const MissingAPIKeyMessage = "Please provide your API key"

// Generation is a finished submission: the stored run plus the parsed reply.
type Generation struct {
	Run    *models.GenerationRun
	Result *generator.Result
}

type GenerationService interface {
	Generate(ctx context.Context, req *models.GenerateRequest) (*Generation, error)
	GetRun(ctx context.Context, id string) (*Generation, error)
	ListRuns(ctx context.Context, limit int) ([]models.GenerationRun, error)
	SuiteJSON(ctx context.Context, id string) ([]byte, error)
	SuiteXLSX(ctx context.Context, id string) ([]byte, error)
	AvailableModels(ctx context.Context, apiKey string) ([]string, error)
	Models() []string
	DefaultModel() string
	// HasCredential reports whether a request with apiKey can reach a model.
	HasCredential(apiKey string) bool
}

type generationService struct {
	repo    repository.Repository
	storage storage.Storage
	factory generator.Factory
	cfg     *config.Config
	logger  *utils.Logger
}

func NewService(repo repository.Repository, store storage.Storage, factory generator.Factory, cfg *config.Config, logger *utils.Logger) GenerationService {
	return &generationService{
		repo:    repo,
		storage: store,
		factory: factory,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *generationService) Generate(ctx context.Context, req *models.GenerateRequest) (*Generation, error) {
	model := req.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}
	if !slices.Contains(s.cfg.Models, model) {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unknown model '%s'", model))
	}

	gen, err := s.factory(ctx, strings.TrimSpace(req.APIKey))
	if errors.Is(err, generator.ErrMissingAPIKey) {
		return nil, utils.NewBadRequestError(MissingAPIKeyMessage)
	}
	if err != nil {
		s.logger.Error("Failed to configure generator", "error", err, "model", model)
		return nil, utils.NewBadGatewayError("Failed to configure the model client", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GenerateTimeout)
	defer cancel()

	s.logger.Info("Generating test cases", "model", model, "filename", req.Filename, "text_length", len(req.Requirements))

	raw, err := gen.Generate(ctx, model, generator.BuildPrompt(req.Requirements))
	if err != nil {
		s.logger.Error("Model call failed", "error", err, "model", model)
		return nil, utils.NewBadGatewayError("An error occurred", err)
	}

	result := generator.ParseResponse(raw)
	if !result.Parsed {
		s.logger.Warn("Model output is not JSON, falling back to raw text", "model", model, "error", result.ParseErr)
	} else if result.SchemaErr != nil {
		s.logger.Warn("Model output does not match the test case shape", "model", model, "error", result.SchemaErr)
	}

	run := &models.GenerationRun{
		ID:           utils.GenerateID(),
		Filename:     req.Filename,
		Model:        model,
		Requirements: req.Requirements,
		RawResponse:  raw,
		Parsed:       result.Parsed,
		CaseCount:    result.Count,
		CreatedAt:    time.Now().UTC(),
	}
	if result.Parsed {
		run.CleanedJSON = result.Cleaned
	}

	s.archive(ctx, run, result)

	if err := s.repo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to save generation run", "error", err, "run_id", run.ID)
		if err := s.storage.DeleteRun(ctx, run.ID); err != nil {
			s.logger.Warn("Failed to clean up archived artifacts", "error", err, "run_id", run.ID)
		}
		return nil, utils.NewInternalError("Failed to save generation results")
	}

	s.logger.Info("Test cases generated",
		"run_id", run.ID,
		"model", model,
		"parsed", result.Parsed,
		"count", result.Count)

	return &Generation{Run: run, Result: result}, nil
}

// archive stores the run artifacts. Failures are logged only.
func (s *generationService) archive(ctx context.Context, run *models.GenerationRun, result *generator.Result) {
	if err := s.storage.PutArtifact(ctx, run.ID, storage.RequirementsObject, []byte(run.Requirements), "text/plain; charset=utf-8"); err != nil {
		s.logger.Warn("Failed to archive requirements", "error", err, "run_id", run.ID)
	}

	if !result.Parsed {
		return
	}

	if err := s.storage.PutArtifact(ctx, run.ID, storage.SuiteObject, result.Pretty(), "application/json"); err != nil {
		s.logger.Warn("Failed to archive test suite", "error", err, "run_id", run.ID)
	}
}

func (s *generationService) GetRun(ctx context.Context, id string) (*Generation, error) {
	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get generation run", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve generation run")
	}
	if run == nil {
		return nil, utils.NewNotFoundError("Generation run not found")
	}

	return &Generation{Run: run, Result: generator.ParseResponse(run.RawResponse)}, nil
}

func (s *generationService) ListRuns(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list generation runs", "error", err)
		return nil, utils.NewInternalError("Failed to list generation runs")
	}

	return runs, nil
}

func (s *generationService) parsedRun(ctx context.Context, id string) (*Generation, error) {
	g, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.Result.Parsed {
		return nil, utils.NewNotFoundError("This run has no parsed test cases")
	}
	return g, nil
}

func (s *generationService) SuiteJSON(ctx context.Context, id string) ([]byte, error) {
	g, err := s.parsedRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.Result.Pretty(), nil
}

func (s *generationService) SuiteXLSX(ctx context.Context, id string) ([]byte, error) {
	g, err := s.parsedRun(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := export.TestCasesXLSX(g.Result.Table)
	if err != nil {
		s.logger.Error("Failed to export XLSX", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to export test cases")
	}
	return data, nil
}

func (s *generationService) AvailableModels(ctx context.Context, apiKey string) ([]string, error) {
	gen, err := s.factory(ctx, strings.TrimSpace(apiKey))
	if errors.Is(err, generator.ErrMissingAPIKey) {
		return nil, utils.NewBadRequestError(MissingAPIKeyMessage)
	}
	if err != nil {
		return nil, utils.NewBadGatewayError("Failed to configure the model client", err)
	}

	names, err := gen.ListModels(ctx)
	if err != nil {
		s.logger.Error("Failed to list models", "error", err)
		return nil, utils.NewBadGatewayError("Connection error", err)
	}

	return names, nil
}

func (s *generationService) Models() []string {
	return s.cfg.Models
}

func (s *generationService) DefaultModel() string {
	return s.cfg.DefaultModel
}

func (s *generationService) HasCredential(apiKey string) bool {
	return strings.TrimSpace(apiKey) != "" || s.cfg.DefaultAPIKey() != ""
}
