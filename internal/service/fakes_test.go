package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/internship-service/internal/domain"
	"github.com/spec-kit/internship-service/internal/events"
	"github.com/spec-kit/internship-service/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type memIdentityRepo struct {
	mu         sync.Mutex
	byID       map[string]*domain.Identity
	byEmail    map[string]*domain.Identity
	createErr  error
	createDone int
}

func newMemIdentityRepo() *memIdentityRepo {
	return &memIdentityRepo{
		byID:    map[string]*domain.Identity{},
		byEmail: map[string]*domain.Identity{},
	}
}

func (r *memIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	identity.CreatedAt = time.Now()
	copied := *identity
	r.byID[identity.ID] = &copied
	r.byEmail[identity.Email] = &copied
	r.createDone++
	return nil
}

func (r *memIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *identity
	return &copied, nil
}

func (r *memIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *identity
	return &copied, nil
}

type memProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]*domain.Profile
	createErr error
	creates   int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[string]*domain.Profile{}}
}

func (r *memProfileRepo) CreateIfAbsent(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if existing, ok := r.profiles[profile.ID]; ok {
		copied := *existing
		return &copied, nil
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	copied := *profile
	r.profiles[profile.ID] = &copied
	r.creates++
	out := copied
	return &out, nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (r *memProfileRepo) SetActive(_ context.Context, id string, active bool) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	profile.Active = active
	profile.UpdatedAt = time.Now()
	copied := *profile
	return &copied, nil
}

func (r *memProfileRepo) ListStudents(_ context.Context, limit int) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		if profile.Role != domain.RoleStudent {
			continue
		}
		out = append(out, *profile)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment
	order    []string
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: map[string]*domain.Payment{}}
}

func (r *memPaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment.CreatedAt = time.Now()
	copied := *payment
	r.payments[payment.ID] = &copied
	r.order = append(r.order, payment.ID)
	return nil
}

func (r *memPaymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *payment
	return &copied, nil
}

func (r *memPaymentRepo) LatestByProfile(_ context.Context, profileID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		payment := r.payments[r.order[i]]
		if payment.ProfileID == profileID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memPaymentRepo) ListRecent(_ context.Context, limit int) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Payment, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.payments[r.order[i]])
	}
	return out, nil
}

func (r *memPaymentRepo) SetStatus(_ context.Context, id string, status domain.PaymentStatus, verifiedBy string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	payment.Status = status
	payment.VerifiedAt = &now
	payment.VerifiedBy = &verifiedBy
	copied := *payment
	return &copied, nil
}

// memCodeRepo mirrors the transactional redemption semantics of the Postgres
// implementation against an in-memory profile store.
type memCodeRepo struct {
	mu       sync.Mutex
	codes    map[string]*domain.ActivationCode
	profiles *memProfileRepo
}

func newMemCodeRepo(profiles *memProfileRepo) *memCodeRepo {
	return &memCodeRepo{codes: map[string]*domain.ActivationCode{}, profiles: profiles}
}

func (r *memCodeRepo) Create(_ context.Context, code *domain.ActivationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code.CreatedAt = time.Now()
	copied := *code
	r.codes[code.Code] = &copied
	return nil
}

func (r *memCodeRepo) GetByCode(_ context.Context, code string) (*domain.ActivationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memCodeRepo) Redeem(ctx context.Context, code, profileID string) (*domain.Profile, error) {
	r.mu.Lock()
	stored, ok := r.codes[code]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	if stored.ProfileID != profileID {
		r.mu.Unlock()
		return nil, repository.ErrCodeOwnerMismatch
	}
	if stored.Used {
		r.mu.Unlock()
		return nil, repository.ErrCodeUsed
	}
	now := time.Now()
	stored.Used = true
	stored.UsedAt = &now
	r.mu.Unlock()

	return r.profiles.SetActive(ctx, profileID, true)
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.CreatedAt = time.Now()
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (r *memTaskRepo) ListByProfile(_ context.Context, profileID string) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, task := range r.tasks {
		if task.ProfileID != nil && *task.ProfileID == profileID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (r *memTaskRepo) ListByLevel(_ context.Context, level domain.Level) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Task
	for _, task := range r.tasks {
		if task.Level != nil && *task.Level == level {
			out = append(out, *task)
		}
	}
	return out, nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions []domain.Submission
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{}
}

func (r *memSubmissionRepo) Create(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	submission.CreatedAt = time.Now()
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *memSubmissionRepo) ListByTask(_ context.Context, taskID string) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Submission
	for i := len(r.submissions) - 1; i >= 0; i-- {
		if r.submissions[i].TaskID == taskID {
			out = append(out, r.submissions[i])
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*domain.Profile
}

func (p *recordingPublisher) Publish(_ context.Context, profile *domain.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, profile)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		out = append(out, event.Type)
	}
	return out
}

var errStorage = errors.New("storage unavailable")
