package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// LinkerService turns free-text activity into standard progress: ask the
// provider for candidate codes, resolve them locally, and record the ones
// that clear the confidence gate. All of it is best effort — a provider
// outage yields no links and nothing else.
type LinkerService interface {
	SuggestStandards(ctx context.Context, req SuggestionRequest) []StandardSuggestion
	AutoLink(ctx context.Context, req SuggestionRequest, threshold Confidence) []*types.Standard
}

type linkerService struct {
	log       *logger.Logger
	provider  SuggestionProvider
	standards StandardsService
	progress  ProgressService
}

func NewLinkerService(log *logger.Logger, provider SuggestionProvider, standards StandardsService, progress ProgressService) LinkerService {
	serviceLog := log.With("service", "LinkerService")
	return &linkerService{
		log:       serviceLog,
		provider:  provider,
		standards: standards,
		progress:  progress,
	}
}

func (s *linkerService) SuggestStandards(ctx context.Context, req SuggestionRequest) []StandardSuggestion {
	if s.provider == nil {
		return nil
	}

	suggestions, err := s.provider.Suggest(ctx, req)
	if err != nil {
		// An outage (including a malformed response) means no
		// suggestions; the activity-logging path moves on.
		s.log.Warn("suggestion provider unavailable", "error", err)
		return nil
	}

	for i := range suggestions {
		std, err := s.standards.Resolve(ctx, suggestions[i].Code, req.Jurisdiction)
		if err != nil {
			if !errors.Is(err, apperr.ErrNotFound) {
				s.log.Warn("candidate resolution failed", "code", suggestions[i].Code, "error", err)
			}
			continue
		}
		suggestions[i].Standard = std
	}
	return suggestions
}

func (s *linkerService) AutoLink(ctx context.Context, req SuggestionRequest, threshold Confidence) []*types.Standard {
	ctx, span := otel.Tracer("linker").Start(ctx, "LinkerService.AutoLink",
		trace.WithAttributes(attribute.String("threshold", string(threshold))))
	defer span.End()

	suggestions := s.SuggestStandards(ctx, req)

	linked := make([]*types.Standard, 0, len(suggestions))
	for _, sg := range suggestions {
		if sg.Standard == nil || sg.Confidence.Rank() < threshold.Rank() {
			continue
		}
		if _, err := s.progress.RecordProgress(ctx, req.UserID, sg.Standard.ID, types.ProgressSourceActivity, req.ActivityID); err != nil {
			s.log.Warn("auto-link progress record failed", "code", sg.Code, "error", err)
			continue
		}
		linked = append(linked, sg.Standard)
	}

	span.SetAttributes(attribute.Int("linked", len(linked)))
	return linked
}
