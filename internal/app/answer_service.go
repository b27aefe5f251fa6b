package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"kbassist/internal/model"
)

const defaultTopK = 2

// NoKnowledgeAnswer is returned verbatim when retrieval finds nothing.
// Generation is skipped entirely in that case: prompting the model with an
// empty context invites fabricated answers.
const NoKnowledgeAnswer = "Sorry, I couldn't find anything in the knowledge base related to your question. Please try rephrasing it or ask about another topic."

// ChunkSearcher ranks stored chunks against a query vector. An empty result
// is a valid outcome, distinct from a transport failure.
type ChunkSearcher interface {
	SearchTopK(ctx context.Context, query []float32, limit int) ([]model.RetrievedChunk, error)
}

// Generator produces free-form text for a prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ResourceCatalog looks up catalog records for a batch of resource ids.
// Missing ids are silently absent from the result.
type ResourceCatalog interface {
	ListByIDs(ctx context.Context, ids []string) ([]model.Resource, error)
}

// AnswerResult is the answer endpoint payload.
type AnswerResult struct {
	NeedQuery   bool           `json:"need_query"`
	Answer      string         `json:"answer"`
	ResourceIDs []string       `json:"resource_ids"`
	Sources     []model.Source `json:"sources"`
}

// AnswerService runs the retrieval pipeline: embed the question, fetch the
// top-K chunks, assemble context, prompt the model, parse its output and
// resolve cited sources. Each call is independent; the service holds no
// per-request state.
type AnswerService struct {
	embedder *EmbeddingGateway
	searcher ChunkSearcher
	prompter *PromptBuilder
	gen      Generator
	catalog  ResourceCatalog
	topK     int
	logger   zerolog.Logger
}

func NewAnswerService(
	embedder *EmbeddingGateway,
	searcher ChunkSearcher,
	prompter *PromptBuilder,
	gen Generator,
	catalog ResourceCatalog,
	topK int,
	logger zerolog.Logger,
) *AnswerService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AnswerService{
		embedder: embedder,
		searcher: searcher,
		prompter: prompter,
		gen:      gen,
		catalog:  catalog,
		topK:     topK,
		logger:   logger,
	}
}

// Answer processes one question with the given (already truncated) history.
func (s *AnswerService) Answer(ctx context.Context, question string, history []model.ChatTurn) (*AnswerResult, error) {
	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	chunks, err := s.searcher.SearchTopK(ctx, queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	if len(chunks) == 0 {
		s.logger.Info().Str("question", question).Msg("no chunks retrieved, skipping generation")
		return &AnswerResult{
			Answer:      NoKnowledgeAnswer,
			ResourceIDs: []string{},
			Sources:     []model.Source{},
		}, nil
	}

	prompt := s.prompter.Build(question, BuildContext(chunks), history)

	raw, err := s.gen.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	parsed := ParseAnswer(raw)

	sources, err := s.resolveSources(ctx, parsed.ResourceIDs)
	if err != nil {
		// Source resolution is cosmetic; an ungrounded answer beats a failure.
		s.logger.Warn().Err(err).Msg("source resolution failed")
		sources = nil
	}

	answer := parsed.Answer
	if len(parsed.ResourceIDs) > 0 && len(sources) > 0 {
		answer += fmt.Sprintf("\n\n(Answered using %d source document(s).)", len(sources))
	}

	resourceIDs := parsed.ResourceIDs
	if resourceIDs == nil {
		resourceIDs = []string{}
	}
	if sources == nil {
		sources = []model.Source{}
	}
	return &AnswerResult{
		Answer:      answer,
		ResourceIDs: resourceIDs,
		Sources:     sources,
	}, nil
}

// resolveSources fetches display metadata for cited resource ids with one
// batched catalog lookup. Zero ids means zero lookups.
func (s *AnswerService) resolveSources(ctx context.Context, ids []string) ([]model.Source, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resources, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sources := make([]model.Source, 0, len(resources))
	for _, r := range resources {
		sources = append(sources, ProjectSource(r))
	}
	return sources, nil
}

// ProjectSource maps a catalog record to its display projection, deriving
// the download link from the resource id.
func ProjectSource(r model.Resource) model.Source {
	return model.Source{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		FileType:    r.FileType,
		FileSize:    r.FileSize,
		Category:    r.Category,
		CreatedAt:   r.CreatedAt,
		DownloadURL: DownloadPath(r.ID),
	}
}

// DownloadPath is the fixed download route pattern for a resource.
func DownloadPath(resourceID string) string {
	return "/api/v1/resources/" + resourceID + "/download"
}
