package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/platform/openai"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// Confidence is the tier a suggested standard match carries. It gates
// whether a match is recorded automatically.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence tiers; unknown tiers rank below "low".
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh, true
	case ConfidenceMedium:
		return ConfidenceMedium, true
	case ConfidenceLow:
		return ConfidenceLow, true
	default:
		return "", false
	}
}

type SuggestionRequest struct {
	UserID           uuid.UUID
	ActivityID       *uuid.UUID
	ActivityText     string
	ActivityAnalysis string
	Jurisdiction     string
	GradeLevel       string
}

// StandardSuggestion is one candidate match from the provider. Standard is
// populated when the candidate code resolved against the local registry.
type StandardSuggestion struct {
	Code       string          `json:"code"`
	Subject    string          `json:"subject"`
	Reasoning  string          `json:"reasoning"`
	Confidence Confidence      `json:"confidence"`
	Standard   *types.Standard `json:"standard,omitempty"`
}

// SuggestionProvider is the single seam to the generative model. A failed
// call and a malformed response are the same thing to callers: no
// suggestions.
type SuggestionProvider interface {
	Suggest(ctx context.Context, req SuggestionRequest) ([]StandardSuggestion, error)
}

const suggestionSystemPrompt = `You map a homeschool learner's completed activity onto official academic standards.
Given the activity description and the learner's jurisdiction and grade level, list the standard codes the activity plausibly demonstrates.
Use real standard codes for the jurisdiction. Be conservative: prefer fewer, better-supported matches.
For each match give the subject, a one-sentence reasoning, and a confidence tier of high, medium, or low.`

var suggestionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"suggestions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"code":       map[string]any{"type": "string"},
					"subject":    map[string]any{"type": "string"},
					"reasoning":  map[string]any{"type": "string"},
					"confidence": map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
				},
				"required": []string{"code", "subject", "reasoning", "confidence"},
			},
		},
	},
	"required": []string{"suggestions"},
}

type openaiSuggestionProvider struct {
	log         *logger.Logger
	ai          openai.Client
	callLogRepo repos.SuggestionCallLogRepo
	timeout     time.Duration
}

func NewOpenAISuggestionProvider(log *logger.Logger, ai openai.Client, callLogRepo repos.SuggestionCallLogRepo, timeout time.Duration) SuggestionProvider {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &openaiSuggestionProvider{
		log:         log.With("service", "SuggestionProvider"),
		ai:          ai,
		callLogRepo: callLogRepo,
		timeout:     timeout,
	}
}

func (p *openaiSuggestionProvider) Suggest(ctx context.Context, req SuggestionRequest) ([]StandardSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ctx, span := otel.Tracer("suggestions").Start(ctx, "SuggestionProvider.Suggest",
		trace.WithAttributes(attribute.String("jurisdiction", req.Jurisdiction)))
	defer span.End()

	userPrompt := fmt.Sprintf("Jurisdiction: %s\nGrade level: %s\nActivity: %s", req.Jurisdiction, req.GradeLevel, req.ActivityText)
	if strings.TrimSpace(req.ActivityAnalysis) != "" {
		userPrompt += "\nAnalysis: " + req.ActivityAnalysis
	}

	started := time.Now()
	obj, err := p.ai.GenerateJSON(ctx, suggestionSystemPrompt, userPrompt, "standard_suggestions", suggestionSchema)
	latency := time.Since(started).Milliseconds()
	if err != nil {
		p.logCall(req, "error", latency, nil, err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrProviderUnavailable, err)
	}

	suggestions, err := parseSuggestionPayload(obj)
	if err != nil {
		p.logCall(req, "invalid", latency, obj, err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrProviderUnavailable, err)
	}

	p.logCall(req, "ok", latency, obj, nil)
	return suggestions, nil
}

// parseSuggestionPayload validates the provider response against the fixed
// shape. Any deviation is treated as an outage by the caller.
func parseSuggestionPayload(obj map[string]any) ([]StandardSuggestion, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Suggestions []struct {
			Code       string `json:"code"`
			Subject    string `json:"subject"`
			Reasoning  string `json:"reasoning"`
			Confidence string `json:"confidence"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	out := make([]StandardSuggestion, 0, len(payload.Suggestions))
	for i, s := range payload.Suggestions {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			return nil, fmt.Errorf("suggestion %d: empty code", i)
		}
		conf, ok := ParseConfidence(s.Confidence)
		if !ok {
			return nil, fmt.Errorf("suggestion %d: invalid confidence %q", i, s.Confidence)
		}
		out = append(out, StandardSuggestion{
			Code:       code,
			Subject:    strings.TrimSpace(s.Subject),
			Reasoning:  strings.TrimSpace(s.Reasoning),
			Confidence: conf,
		})
	}
	return out, nil
}

func (p *openaiSuggestionProvider) logCall(req SuggestionRequest, status string, latencyMS int64, response map[string]any, callErr error) {
	if p.callLogRepo == nil {
		return
	}

	row := &types.SuggestionCallLog{
		ActivityID: req.ActivityID,
		Model:      p.ai.Model(),
		Status:     status,
		LatencyMS:  latencyMS,
	}
	if req.UserID != uuid.Nil {
		id := req.UserID
		row.UserID = &id
	}
	if response != nil {
		if raw, err := json.Marshal(response); err == nil {
			row.Response = datatypes.JSON(raw)
		}
	}
	if callErr != nil {
		row.Error = callErr.Error()
	}

	// Call logs are observability, not correctness; a short detached
	// deadline keeps them from holding up the caller.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := p.callLogRepo.Create(ctx, nil, row); err != nil {
		p.log.Warn("failed to record suggestion call log", "error", err)
	}
}
