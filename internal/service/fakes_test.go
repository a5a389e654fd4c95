package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shourjoguha/Gainsly-sub000/internal/domain"
	"github.com/shourjoguha/Gainsly-sub000/internal/repository"
)

// In-memory repository fakes. Generation workers touch these concurrently, so
// every fake locks around its map/slice state.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	user.ID = id
	r.users[id] = *user
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

type fakeProgramRepo struct {
	mu       sync.Mutex
	programs map[primitive.ObjectID]domain.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: map[primitive.ObjectID]domain.Program{}}
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	program.ID = id
	r.programs[id] = *program
	return id, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := p
	return &out, nil
}

func (r *fakeProgramRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Program
	for _, p := range r.programs {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.programs {
		if p.UserID == userID && p.IsActive {
			out := p
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) Activate(ctx context.Context, programID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[programID]; !ok {
		return repository.ErrNotFound
	}
	for id, p := range r.programs {
		if p.UserID != userID {
			continue
		}
		p.IsActive = id == programID
		r.programs[id] = p
	}
	return nil
}

type fakeMicrocycleRepo struct {
	mu     sync.Mutex
	micros []domain.Microcycle
}

func newFakeMicrocycleRepo() *fakeMicrocycleRepo {
	return &fakeMicrocycleRepo{}
}

func (r *fakeMicrocycleRepo) Create(ctx context.Context, micro *domain.Microcycle) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	micro.ID = primitive.NewObjectID()
	r.micros = append(r.micros, *micro)
	return micro.ID, nil
}

func (r *fakeMicrocycleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Microcycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.micros {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMicrocycleRepo) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Microcycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Microcycle
	for _, m := range r.micros {
		if m.ProgramID == programID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMicrocycleRepo) GetActiveByProgramID(ctx context.Context, programID primitive.ObjectID) (*domain.Microcycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.micros {
		if m.ProgramID == programID && m.Status == domain.MicrocycleActive {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMicrocycleRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MicrocycleStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.micros {
		if r.micros[i].ID == id {
			r.micros[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{}
}

func (r *fakeSessionRepo) CreateMany(ctx context.Context, sessions []domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range sessions {
		sessions[i].ID = primitive.NewObjectID()
		r.sessions = append(r.sessions, sessions[i])
	}
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id {
			out := s
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Session
	for _, s := range r.sessions {
		if s.MicrocycleID == microcycleID {
			out = append(out, s)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].DayNumber < out[j-1].DayNumber; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) ReplaceContent(ctx context.Context, id primitive.ObjectID, content *domain.SessionContent, status domain.GenerationStatus, coachNote string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Content = content
			r.sessions[i].Status = status
			r.sessions[i].CoachNote = coachNote
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GenerationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []domain.Movement
	circuits  []domain.CircuitTemplate
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	movement.ID = primitive.NewObjectID()
	r.movements = append(r.movements, *movement)
	return movement.ID, nil
}

func (r *fakeMovementRepo) GetAll(ctx context.Context) ([]domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Movement(nil), r.movements...), nil
}

func (r *fakeMovementRepo) GetByName(ctx context.Context, name string) (*domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.Name == name {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMovementRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.movements)), nil
}

func (r *fakeMovementRepo) CreateCircuit(ctx context.Context, circuit *domain.CircuitTemplate) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	circuit.ID = primitive.NewObjectID()
	r.circuits = append(r.circuits, *circuit)
	return circuit.ID, nil
}

func (r *fakeMovementRepo) GetAllCircuits(ctx context.Context) ([]domain.CircuitTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CircuitTemplate(nil), r.circuits...), nil
}

type fakeRecoveryRepo struct {
	mu      sync.Mutex
	signals []domain.RecoverySignal
}

func newFakeRecoveryRepo() *fakeRecoveryRepo {
	return &fakeRecoveryRepo{}
}

func (r *fakeRecoveryRepo) Create(ctx context.Context, signal *domain.RecoverySignal) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	signal.ID = primitive.NewObjectID()
	r.signals = append(r.signals, *signal)
	return signal.ID, nil
}

func (r *fakeRecoveryRepo) GetSince(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.RecoverySignal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.RecoverySignal
	for _, s := range r.signals {
		if s.UserID == userID && !s.Date.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]domain.GenerationJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]domain.GenerationJob{}}
}

func (r *fakeJobRepo) Create(ctx context.Context, job *domain.GenerationJob) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = primitive.NewObjectID()
	r.jobs[job.JobID] = *job
	return job.ID, nil
}

func (r *fakeJobRepo) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := j
	return &out, nil
}

func (r *fakeJobRepo) GetLatestByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) (*domain.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.GenerationJob
	for _, j := range r.jobs {
		if j.MicrocycleID != microcycleID {
			continue
		}
		if latest == nil || j.EnqueuedAt.After(latest.EnqueuedAt) {
			out := j
			latest = &out
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *fakeJobRepo) SetStatus(ctx context.Context, jobID uuid.UUID, status domain.JobStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok {
		return repository.ErrNotFound
	}
	j.Status = status
	j.Error = errMsg
	r.jobs[jobID] = j
	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) PutObject(ctx context.Context, objectKey, contentType string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = body
	s.types[objectKey] = contentType
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/" + objectKey, nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey)
	delete(s.types, objectKey)
	return nil
}
