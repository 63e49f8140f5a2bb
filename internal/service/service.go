package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/archigram/archigram/internal/analyze"
	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/evolve"
	"github.com/archigram/archigram/internal/infer"
	"github.com/archigram/archigram/internal/ingest"
	"github.com/archigram/archigram/internal/llm"
	"github.com/archigram/archigram/internal/model"
	"github.com/archigram/archigram/internal/pipeline"
	"github.com/archigram/archigram/internal/store"
)

// ConversationService is the façade the CLI and batch workers talk to.
// It owns the pipeline, the evolution engine and the session store,
// and keeps requirement-id numbering continuous across calls.
type ConversationService struct {
	cfg      *model.Config
	logger   *zap.Logger
	ingestor *ingest.Ingestor
	pipeline *pipeline.Pipeline
	engine   *evolve.Engine
	sessions *store.SessionStore
	analyzer *analyze.Analyzer
	provider llm.Provider
}

// New builds a service from configuration. An unset LLM provider is
// not an error: inference falls back to heuristic naming.
func New(cfg *model.Config, logger *zap.Logger) (*ConversationService, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure LLM provider: %w", err)
	}

	var hints infer.HintProvider
	if provider != nil {
		hints = llm.NewHintClient(provider, llm.ConfigFromModel(cfg.LLM))
		logger.Info("LLM hints enabled", zap.String("provider", provider.Name()))
	}

	pipe := pipeline.New(cfg, hints, logger)

	return &ConversationService{
		cfg:      cfg,
		logger:   logger,
		ingestor: ingest.NewIngestor(cfg.Ingest),
		pipeline: pipe,
		engine:   evolve.NewEngine(pipe.Inferencer(), pipe.Classifier(), pipe.Extractor()),
		sessions: store.NewSessionStore(cfg.Session),
		analyzer: analyze.NewAnalyzer(pipe.Classifier(), pipe.Extractor(), pipe.Inferencer()),
		provider: provider,
	}, nil
}

// ProviderName returns the configured LLM provider name, or "none"
func (s *ConversationService) ProviderName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

// ProviderAvailable reports whether the configured provider answers
func (s *ConversationService) ProviderAvailable(ctx context.Context) bool {
	if s.provider == nil {
		return false
	}
	return s.provider.IsAvailable(ctx)
}

// Ingest normalizes raw text into a statement. Malformed input returns
// MalformedStatementError.
func (s *ConversationService) Ingest(content, speaker string, timestamp time.Time, context map[string]string) (model.Statement, error) {
	return s.ingestor.Ingest(content, speaker, timestamp, context)
}

// ProcessConversation runs the full pipeline over a conversation and,
// on success, registers it as version 1 of a session. Reprocessing an
// existing conversation id restarts its history.
func (s *ConversationService) ProcessConversation(ctx context.Context, conv *model.Conversation) *model.ProcessingResult {
	result, offsets := s.pipeline.Process(ctx, conv)
	if !result.Success {
		return result
	}

	session := s.sessions.GetOrCreate(conv.ID)
	session.Conversation = conv
	session.History = []*model.Architecture{result.Architecture}
	session.Requirements = result.Requirements
	session.Offsets = offsets
	s.sessions.Put(session)

	return result
}

// AnalyzeComplexity estimates the complexity of a conversation without
// producing an architecture
func (s *ConversationService) AnalyzeComplexity(conv *model.Conversation) *model.ComplexityReport {
	return s.analyzer.Analyze(conv)
}

// Evolve applies newly appended statements to an already-processed
// conversation, blocking if another evolution for the same id is in
// flight.
func (s *ConversationService) Evolve(ctx context.Context, conversationID string, statements []model.Statement) (*model.Architecture, *model.DiffReport, []model.Warning, error) {
	return s.evolveWith(ctx, conversationID, statements, false)
}

// TryEvolve is the non-blocking variant: it returns
// EvolutionConflictError when an evolution for the conversation is
// already running.
func (s *ConversationService) TryEvolve(ctx context.Context, conversationID string, statements []model.Statement) (*model.Architecture, *model.DiffReport, []model.Warning, error) {
	return s.evolveWith(ctx, conversationID, statements, true)
}

func (s *ConversationService) evolveWith(ctx context.Context, conversationID string, statements []model.Statement, failFast bool) (*model.Architecture, *model.DiffReport, []model.Warning, error) {
	session, ok := s.sessions.Get(conversationID)
	if !ok || session.Current() == nil {
		return nil, nil, nil, fmt.Errorf("conversation %s has no architecture yet; process it first", conversationID)
	}

	var (
		res *evolve.Result
		err error
	)
	if failFast {
		res, err = s.engine.TryEvolve(ctx, conversationID, session.Current(), statements, session.Offsets)
	} else {
		res, err = s.engine.Evolve(ctx, conversationID, session.Current(), statements, session.Offsets)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	merged := mergeRequirements(session.Requirements, res.Requirements)
	validateWarnings, err := s.pipeline.Validate(res.Architecture, merged)
	warnings := append(res.Warnings, validateWarnings...)
	if err != nil {
		// The candidate is inconsistent; the stored version stays current
		return nil, nil, warnings, err
	}

	for _, statement := range statements {
		session.Conversation.Append(statement)
	}
	offsets := classify.Offsets{
		Functional:    session.Offsets.Functional + len(res.Requirements.Functional),
		NonFunctional: session.Offsets.NonFunctional + len(res.Requirements.NonFunctional),
		Constraints:   session.Offsets.Constraints + len(res.Requirements.Constraints),
	}
	if err := s.sessions.AppendVersion(conversationID, res.Architecture, merged, offsets); err != nil {
		return nil, nil, warnings, err
	}

	s.logger.Info("conversation evolved",
		zap.String("conversation_id", conversationID),
		zap.Int("version", res.Architecture.Version),
		zap.Int("added", len(res.Diff.Added)),
		zap.Int("updated", len(res.Diff.Updated)),
		zap.Int("removed", len(res.Diff.Removed)))

	return res.Architecture, res.Diff, warnings, nil
}

// Rollback makes an earlier architecture version current again
func (s *ConversationService) Rollback(conversationID string, version int) (*model.Architecture, error) {
	arch, err := s.sessions.Rollback(conversationID, version)
	if err != nil {
		return nil, err
	}
	s.logger.Info("conversation rolled back",
		zap.String("conversation_id", conversationID),
		zap.Int("version", version))
	return arch, nil
}

// History returns every architecture version recorded for a
// conversation, oldest first
func (s *ConversationService) History(conversationID string) ([]*model.Architecture, error) {
	session, ok := s.sessions.Get(conversationID)
	if !ok {
		return nil, fmt.Errorf("no session for conversation %s", conversationID)
	}
	history := make([]*model.Architecture, len(session.History))
	copy(history, session.History)
	return history, nil
}

// Summary renders a one-paragraph overview of a conversation's state
func (s *ConversationService) Summary(conversationID string) (string, error) {
	session, ok := s.sessions.Get(conversationID)
	if !ok {
		return "", fmt.Errorf("no session for conversation %s", conversationID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "conversation %s: %d statements", conversationID, len(session.Conversation.Statements))
	if reqs := session.Requirements; reqs != nil {
		fmt.Fprintf(&b, ", %d functional / %d non-functional / %d constraint requirements",
			len(reqs.Functional), len(reqs.NonFunctional), len(reqs.Constraints))
	}
	if arch := session.Current(); arch != nil {
		names := make([]string, 0, len(arch.Components))
		for _, c := range arch.Components {
			names = append(names, c.Name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "; architecture v%d with %d components (%s)",
			arch.Version, len(arch.Components), strings.Join(names, ", "))
	} else {
		b.WriteString("; no architecture yet")
	}
	return b.String(), nil
}

// mergeRequirements unions the cumulative set with a step's additions.
// Ids never collide because numbering continues from stored offsets.
func mergeRequirements(base, step *model.RequirementSet) *model.RequirementSet {
	if base == nil {
		return step
	}
	if step == nil {
		return base
	}
	merged := &model.RequirementSet{
		Functional:    append(append([]model.Requirement{}, base.Functional...), step.Functional...),
		NonFunctional: append(append([]model.Requirement{}, base.NonFunctional...), step.NonFunctional...),
		Constraints:   append(append([]model.Requirement{}, base.Constraints...), step.Constraints...),
	}
	seen := make(map[string]bool)
	for _, entity := range append(append([]string{}, base.Entities...), step.Entities...) {
		if !seen[entity] {
			seen[entity] = true
			merged.Entities = append(merged.Entities, entity)
		}
	}
	sort.Strings(merged.Entities)
	return merged
}
