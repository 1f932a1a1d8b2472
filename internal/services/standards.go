package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type StandardInput struct {
	Code         string  `json:"code"`
	Jurisdiction string  `json:"jurisdiction"`
	Subject      string  `json:"subject"`
	GradeLevel   string  `json:"grade_level"`
	Statement    string  `json:"statement"`
	Description  *string `json:"description,omitempty"`
	ExternalID   *string `json:"external_id,omitempty"`
}

// StandardsService owns the standard catalog: lookup by (code,
// jurisdiction), first-resolution insertion, and component attachment.
type StandardsService interface {
	// Resolve is a pure local lookup. A miss is apperr.ErrNotFound — a
	// normal, reportable outcome.
	Resolve(ctx context.Context, code, jurisdiction string) (*types.Standard, error)
	// Create inserts a standard on first resolution. Losing a creation
	// race is fine: the winner's row is returned.
	Create(ctx context.Context, input StandardInput) (*types.Standard, error)
	// AttachComponents inserts sub-skill statements preserving order.
	// There is no batch transaction: a partial failure leaves earlier
	// inserts intact and returns them alongside the error.
	AttachComponents(ctx context.Context, standardID uuid.UUID, orderedTexts []string) ([]*types.StandardComponent, error)
	Components(ctx context.Context, standardID uuid.UUID) ([]*types.StandardComponent, error)
	Catalog(ctx context.Context, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error)
}

type standardsService struct {
	log           *logger.Logger
	standardRepo  repos.StandardRepo
	componentRepo repos.StandardComponentRepo
}

func NewStandardsService(log *logger.Logger, standardRepo repos.StandardRepo, componentRepo repos.StandardComponentRepo) StandardsService {
	serviceLog := log.With("service", "StandardsService")
	return &standardsService{
		log:           serviceLog,
		standardRepo:  standardRepo,
		componentRepo: componentRepo,
	}
}

func (s *standardsService) Resolve(ctx context.Context, code, jurisdiction string) (*types.Standard, error) {
	code = strings.TrimSpace(code)
	jurisdiction = strings.TrimSpace(jurisdiction)
	if code == "" || jurisdiction == "" {
		return nil, apperr.ErrInvalidArgument
	}

	row, err := s.standardRepo.GetByCode(ctx, nil, code, jurisdiction)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("standard.get_by_code", err)
	}
	return row, nil
}

func (s *standardsService) Create(ctx context.Context, input StandardInput) (*types.Standard, error) {
	input.Code = strings.TrimSpace(input.Code)
	input.Jurisdiction = strings.TrimSpace(input.Jurisdiction)
	if input.Code == "" || input.Jurisdiction == "" || strings.TrimSpace(input.Statement) == "" {
		return nil, apperr.ErrInvalidArgument
	}

	row := &types.Standard{
		ID:           uuid.New(),
		Code:         input.Code,
		Jurisdiction: input.Jurisdiction,
		Subject:      strings.TrimSpace(input.Subject),
		GradeLevel:   strings.TrimSpace(input.GradeLevel),
		Statement:    strings.TrimSpace(input.Statement),
		Description:  input.Description,
		ExternalID:   input.ExternalID,
	}

	err := s.standardRepo.Create(ctx, nil, row)
	if err == nil {
		return row, nil
	}
	if errors.Is(err, apperr.ErrConflict) {
		existing, rerr := s.standardRepo.GetByCode(ctx, nil, input.Code, input.Jurisdiction)
		if rerr != nil {
			return nil, apperr.Store("standard.get_after_conflict", rerr)
		}
		return existing, nil
	}
	return nil, apperr.Store("standard.create", err)
}

func (s *standardsService) AttachComponents(ctx context.Context, standardID uuid.UUID, orderedTexts []string) ([]*types.StandardComponent, error) {
	if _, err := s.standardRepo.GetByID(ctx, nil, standardID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("standard.get_by_id", err)
	}

	existing, err := s.componentRepo.ListByStandardID(ctx, nil, standardID)
	if err != nil {
		return nil, apperr.Store("standard_component.list", err)
	}
	nextPosition := len(existing)

	inserted := make([]*types.StandardComponent, 0, len(orderedTexts))
	for i, text := range orderedTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		row := &types.StandardComponent{
			ID:         uuid.New(),
			StandardID: standardID,
			Position:   nextPosition + i,
			Text:       text,
		}
		if err := s.componentRepo.Create(ctx, nil, row); err != nil {
			s.log.Error("component insert failed mid-batch", "standard_id", standardID, "position", row.Position, "error", err)
			return inserted, apperr.Store(fmt.Sprintf("standard_component.create[%d]", i), err)
		}
		inserted = append(inserted, row)
	}
	return inserted, nil
}

func (s *standardsService) Components(ctx context.Context, standardID uuid.UUID) ([]*types.StandardComponent, error) {
	rows, err := s.componentRepo.ListByStandardID(ctx, nil, standardID)
	if err != nil {
		return nil, apperr.Store("standard_component.list", err)
	}
	return rows, nil
}

func (s *standardsService) Catalog(ctx context.Context, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error) {
	rows, err := s.standardRepo.ListCatalog(ctx, nil, jurisdiction, gradeLevel, subject)
	if err != nil {
		return nil, apperr.Store("standard.list_catalog", err)
	}
	return rows, nil
}
