package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

func testLogger(t interface{ Fatalf(string, ...any) }) *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo(users ...*types.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, row *types.User) error {
	for _, u := range r.users {
		if u.Email == row.Email {
			return apperr.ErrConflict
		}
	}
	r.users[row.ID] = row
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeSkillDefinitionRepo struct {
	defs []*types.SkillDefinition
	err  error
}

func (r *fakeSkillDefinitionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SkillDefinition) error {
	r.defs = append(r.defs, row)
	return nil
}

func (r *fakeSkillDefinitionRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SkillDefinition, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, def := range r.defs {
		if strings.EqualFold(def.Name, name) {
			return def, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeSkillDefinitionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.SkillDefinition, error) {
	return r.defs, nil
}

type skillKey struct {
	userID  uuid.UUID
	skillID uuid.UUID
}

type fakeStudentSkillRepo struct {
	mu        sync.Mutex
	records   map[skillKey]*types.StudentSkillRecord
	createErr error
}

func newFakeStudentSkillRepo() *fakeStudentSkillRepo {
	return &fakeStudentSkillRepo{records: map[skillKey]*types.StudentSkillRecord{}}
}

func (r *fakeStudentSkillRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StudentSkillRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := skillKey{row.UserID, row.SkillID}
	if _, ok := r.records[key]; ok {
		return apperr.ErrConflict
	}
	r.records[key] = row
	return nil
}

func (r *fakeStudentSkillRepo) Get(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID) (*types.StudentSkillRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[skillKey{userID, skillID}]; ok {
		return rec, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeStudentSkillRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudentSkillRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*types.StudentSkillRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			rows = append(rows, rec)
		}
	}
	return rows, nil
}

type fakeRequirementRepo struct {
	requirements []*types.GraduationRequirement
}

func (r *fakeRequirementRepo) Create(ctx context.Context, tx *gorm.DB, row *types.GraduationRequirement) error {
	r.requirements = append(r.requirements, row)
	return nil
}

func (r *fakeRequirementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GraduationRequirement, error) {
	for _, req := range r.requirements {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeRequirementRepo) GetByCategory(ctx context.Context, tx *gorm.DB, jurisdiction, category string) (*types.GraduationRequirement, error) {
	for _, req := range r.requirements {
		if req.Jurisdiction == jurisdiction && req.Category == category {
			return req, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeRequirementRepo) ListByJurisdiction(ctx context.Context, tx *gorm.DB, jurisdiction string) ([]*types.GraduationRequirement, error) {
	var rows []*types.GraduationRequirement
	for _, req := range r.requirements {
		if req.Jurisdiction == jurisdiction {
			rows = append(rows, req)
		}
	}
	return rows, nil
}

type creditKey struct {
	userID        uuid.UUID
	requirementID uuid.UUID
}

type fakeCreditTotalRepo struct {
	mu     sync.Mutex
	totals map[creditKey]float64
}

func newFakeCreditTotalRepo() *fakeCreditTotalRepo {
	return &fakeCreditTotalRepo{totals: map[creditKey]float64{}}
}

func (r *fakeCreditTotalRepo) Get(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID) (*types.CreditTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if earned, ok := r.totals[creditKey{userID, requirementID}]; ok {
		return &types.CreditTotal{UserID: userID, RequirementID: requirementID, EarnedCredits: earned}, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeCreditTotalRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CreditTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*types.CreditTotal
	for key, earned := range r.totals {
		if key.userID == userID {
			rows = append(rows, &types.CreditTotal{UserID: key.userID, RequirementID: key.requirementID, EarnedCredits: earned})
		}
	}
	return rows, nil
}

func (r *fakeCreditTotalRepo) AddCredit(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID, delta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[creditKey{userID, requirementID}] += delta
	return nil
}

func (r *fakeCreditTotalRepo) SetCredits(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID, credits float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totals[creditKey{userID, requirementID}] = credits
	return nil
}

type fakeStandardRepo struct {
	standards []*types.Standard
	listErr   error
}

func (r *fakeStandardRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Standard) error {
	for _, std := range r.standards {
		if strings.EqualFold(std.Code, row.Code) && std.Jurisdiction == row.Jurisdiction {
			return apperr.ErrConflict
		}
	}
	r.standards = append(r.standards, row)
	return nil
}

func (r *fakeStandardRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Standard, error) {
	for _, std := range r.standards {
		if std.ID == id {
			return std, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeStandardRepo) GetByCode(ctx context.Context, tx *gorm.DB, code, jurisdiction string) (*types.Standard, error) {
	for _, std := range r.standards {
		if strings.EqualFold(std.Code, code) && std.Jurisdiction == jurisdiction {
			return std, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeStandardRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Standard, error) {
	var rows []*types.Standard
	for _, id := range ids {
		for _, std := range r.standards {
			if std.ID == id {
				rows = append(rows, std)
			}
		}
	}
	return rows, nil
}

func (r *fakeStandardRepo) ListCatalog(ctx context.Context, tx *gorm.DB, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var rows []*types.Standard
	for _, std := range r.standards {
		if std.Jurisdiction != jurisdiction || std.GradeLevel != gradeLevel {
			continue
		}
		if subject != nil && std.Subject != *subject {
			continue
		}
		rows = append(rows, std)
	}
	return rows, nil
}

type fakeComponentRepo struct {
	components []*types.StandardComponent
	failAfter  int // fail the Nth create (1-based); 0 means never
	created    int
	createErr  error
}

func (r *fakeComponentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StandardComponent) error {
	r.created++
	if r.failAfter > 0 && r.created >= r.failAfter {
		return r.createErr
	}
	r.components = append(r.components, row)
	return nil
}

func (r *fakeComponentRepo) ListByStandardID(ctx context.Context, tx *gorm.DB, standardID uuid.UUID) ([]*types.StandardComponent, error) {
	var rows []*types.StandardComponent
	for _, comp := range r.components {
		if comp.StandardID == standardID {
			rows = append(rows, comp)
		}
	}
	return rows, nil
}

type progressKey struct {
	userID     uuid.UUID
	standardID uuid.UUID
}

type fakeProgressRepo struct {
	mu           sync.Mutex
	records      map[progressKey]*types.StandardProgress
	createErr    error
	missFirstGet bool
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: map[progressKey]*types.StandardProgress{}}
}

func (r *fakeProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StandardProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	key := progressKey{row.UserID, row.StandardID}
	if _, ok := r.records[key]; ok {
		return apperr.ErrConflict
	}
	copied := *row
	r.records[key] = &copied
	return nil
}

func (r *fakeProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.StandardProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *row
	r.records[progressKey{row.UserID, row.StandardID}] = &copied
	return nil
}

func (r *fakeProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID, standardID uuid.UUID) (*types.StandardProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missFirstGet {
		r.missFirstGet = false
		return nil, apperr.ErrNotFound
	}
	if rec, ok := r.records[progressKey{userID, standardID}]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeProgressRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StandardProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*types.StandardProgress
	for _, rec := range r.records {
		if rec.UserID == userID {
			copied := *rec
			rows = append(rows, &copied)
		}
	}
	return rows, nil
}

func (r *fakeProgressRepo) ListStandardIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, rec := range r.records {
		if rec.UserID == userID {
			ids = append(ids, rec.StandardID)
		}
	}
	return ids, nil
}

type planKey struct {
	userID   uuid.UUID
	planDate time.Time
}

type fakeDailyPlanRepo struct {
	mu    sync.Mutex
	plans map[planKey]*types.DailyPlan
}

func newFakeDailyPlanRepo() *fakeDailyPlanRepo {
	return &fakeDailyPlanRepo{plans: map[planKey]*types.DailyPlan{}}
}

func (r *fakeDailyPlanRepo) Create(ctx context.Context, tx *gorm.DB, row *types.DailyPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := planKey{row.UserID, row.PlanDate}
	if _, ok := r.plans[key]; ok {
		return apperr.ErrConflict
	}
	r.plans[key] = row
	return nil
}

func (r *fakeDailyPlanRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plan, ok := r.plans[planKey{userID, planDate}]; ok {
		return plan, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeDailyPlanRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DailyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []*types.DailyPlan
	for _, plan := range r.plans {
		if plan.UserID == userID {
			rows = append(rows, plan)
		}
	}
	return rows, nil
}

type fakeActivityRepo struct {
	activities []*types.Activity
}

func (r *fakeActivityRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Activity) error {
	r.activities = append(r.activities, row)
	return nil
}

func (r *fakeActivityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error) {
	for _, act := range r.activities {
		if act.ID == id {
			return act, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeActivityRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	var rows []*types.Activity
	for _, act := range r.activities {
		if act.UserID == userID {
			rows = append(rows, act)
		}
	}
	return rows, nil
}

func (r *fakeActivityRepo) LatestUnfinishedProject(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (*types.Activity, error) {
	var latest *types.Activity
	for _, act := range r.activities {
		if act.UserID != userID || act.ActivityType != types.ActivityTypeProject {
			continue
		}
		if act.CompletedAt != nil || act.CreatedAt.Before(since) {
			continue
		}
		if latest == nil || act.CreatedAt.After(latest.CreatedAt) {
			latest = act
		}
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	return latest, nil
}

type fakeSuggestionProvider struct {
	suggestions []StandardSuggestion
	err         error
	calls       int
}

func (p *fakeSuggestionProvider) Suggest(ctx context.Context, req SuggestionRequest) ([]StandardSuggestion, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := make([]StandardSuggestion, len(p.suggestions))
	copy(out, p.suggestions)
	return out, nil
}
