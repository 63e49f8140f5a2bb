package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/extract"
	"github.com/archigram/archigram/internal/infer"
	"github.com/archigram/archigram/internal/model"
	"github.com/archigram/archigram/internal/validate"
)

// Pipeline runs the statement-to-architecture stages in order:
// classification, entity extraction, inference, validation. Ingestion
// happens upstream, when statements enter a conversation.
type Pipeline struct {
	classifier *classify.Classifier
	extractor  *extract.EntityExtractor
	inferencer *infer.Inferencer
	validator  *validate.Validator
	logger     *zap.Logger
}

// New assembles a pipeline. A nil hint provider disables LLM-assisted
// naming; inference falls back to heuristics.
func New(cfg *model.Config, hints infer.HintProvider, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		classifier: classify.NewClassifier(),
		extractor:  extract.NewEntityExtractor(cfg.Extract),
		inferencer: infer.NewInferencer(infer.DefaultPatterns(), hints),
		validator:  validate.NewValidator(logger),
		logger:     logger,
	}
}

// Classifier exposes the shared classifier for the evolution engine
func (p *Pipeline) Classifier() *classify.Classifier { return p.classifier }

// Extractor exposes the shared entity extractor
func (p *Pipeline) Extractor() *extract.EntityExtractor { return p.extractor }

// Inferencer exposes the shared inferencer
func (p *Pipeline) Inferencer() *infer.Inferencer { return p.inferencer }

// DeriveRequirements classifies statements into a requirement set and
// attaches the extracted entity list. Requirement ids continue from
// the supplied offsets. Statements are read only; their type was
// stamped at ingestion.
func (p *Pipeline) DeriveRequirements(statements []model.Statement, offsets classify.Offsets) (*model.RequirementSet, []model.Warning) {
	reqs, warnings := p.classifier.Aggregate(statements, offsets)

	entitySet := make(map[string]bool)
	for _, s := range statements {
		for _, entity := range p.extractor.Extract(s.Content) {
			entitySet[entity] = true
		}
	}
	for entity := range entitySet {
		reqs.Entities = append(reqs.Entities, entity)
	}
	sort.Strings(reqs.Entities)

	return reqs, warnings
}

// Process runs the full pipeline over a conversation's statements and
// returns the result plus the requirement-id offsets consumed, so the
// caller can continue numbering on the next evolution step.
func (p *Pipeline) Process(ctx context.Context, conv *model.Conversation) (*model.ProcessingResult, classify.Offsets) {
	result := &model.ProcessingResult{Success: true}

	reqs, warnings := p.DeriveRequirements(conv.Statements, classify.Offsets{})
	result.Warnings = append(result.Warnings, warnings...)
	result.Requirements = reqs

	if reqs.IsEmpty() {
		p.logger.Debug("no requirements derived",
			zap.String("conversation_id", conv.ID),
			zap.Int("statements", len(conv.Statements)))
	}

	arch, inferWarnings, err := p.inferencer.Infer(ctx, reqs)
	if err != nil {
		result.Success = false
		result.AddError("inference_failed", err.Error())
		return result, classify.Offsets{}
	}
	result.Warnings = append(result.Warnings, inferWarnings...)
	arch.Version = 1
	result.Architecture = arch

	validateWarnings, err := p.validator.Validate(arch, reqs)
	result.Warnings = append(result.Warnings, validateWarnings...)
	if err != nil {
		result.Success = false
		result.AddError("consistency_violation", err.Error())
		return result, classify.Offsets{}
	}

	offsets := classify.Offsets{
		Functional:    len(reqs.Functional),
		NonFunctional: len(reqs.NonFunctional),
		Constraints:   len(reqs.Constraints),
	}

	p.logger.Info("conversation processed",
		zap.String("conversation_id", conv.ID),
		zap.Int("requirements", len(reqs.Functional)+len(reqs.NonFunctional)+len(reqs.Constraints)),
		zap.Int("components", len(arch.Components)),
		zap.Int("warnings", len(result.Warnings)))

	return result, offsets
}

// Validate re-checks an evolved architecture against its cumulative
// requirement set
func (p *Pipeline) Validate(arch *model.Architecture, reqs *model.RequirementSet) ([]model.Warning, error) {
	return p.validator.Validate(arch, reqs)
}
