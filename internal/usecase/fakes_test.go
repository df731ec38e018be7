package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"talent-match/internal/domain/job"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/infrastructure/queue"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.User
	err  error
}

func newFakeUsers(us ...user.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]user.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) CreateUser(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

type fakeJobs struct {
	mu      sync.Mutex
	items   []job.Job
	listErr error
}

func (f *fakeJobs) Create(_ context.Context, j job.Job) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.CreatedAt = time.Now()
	f.items = append(f.items, j)
	return j, nil
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.items {
		if j.ID == id {
			return j, nil
		}
	}
	return job.Job{}, repository.ErrJobNotFound
}

func (f *fakeJobs) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []job.Job{}
	for _, j := range f.items {
		if j.EmployerID == employerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) ListActive(context.Context) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []job.Job{}
	for _, j := range f.items {
		if j.Status == job.StatusActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobs) UpdateStatus(_ context.Context, id uuid.UUID, status string) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return f.items[i], nil
		}
	}
	return job.Job{}, repository.ErrJobNotFound
}

type fakeResumes struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]resume.Resume
	saveErr  error
	statuses []string
}

func newFakeResumes(rs ...resume.Resume) *fakeResumes {
	f := &fakeResumes{byID: map[uuid.UUID]resume.Resume{}}
	for _, r := range rs {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeResumes) Create(_ context.Context, r resume.Resume) (resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeResumes) GetByID(_ context.Context, id uuid.UUID) (resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return resume.Resume{}, repository.ErrResumeNotFound
	}
	return r, nil
}

func (f *fakeResumes) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []resume.Resume{}
	for _, r := range f.byID {
		if r.CandidateID == candidateID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResumes) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrResumeNotFound
	}
	r.Status = status
	f.byID[id] = r
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeResumes) SaveParsed(_ context.Context, id uuid.UUID, parsed resume.Parsed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrResumeNotFound
	}
	r.Parsed = &parsed
	r.Status = resume.StatusProcessed
	f.byID[id] = r
	f.statuses = append(f.statuses, resume.StatusProcessed)
	return nil
}

func (f *fakeResumes) ListStale(_ context.Context, status string, before time.Time, _ int) ([]resume.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []resume.Resume{}
	for _, r := range f.byID {
		if r.Status == status && r.UpdatedAt.Before(before) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResumes) get(id uuid.UUID) resume.Resume {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeMatches struct {
	mu        sync.Mutex
	upserts   []match.Match
	failJob   uuid.UUID
	missing   [][]string
	best      map[uuid.UUID]repository.CandidateMatchRow
	byJob     []repository.JobMatchRow
	listCalls int
}

func (f *fakeMatches) Upsert(_ context.Context, m match.Match) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.JobID == f.failJob {
		return match.Match{}, errors.New("insert failed")
	}
	f.upserts = append(f.upserts, m)
	return m, nil
}

func (f *fakeMatches) ListByJob(context.Context, uuid.UUID) ([]repository.JobMatchRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.byJob, nil
}

func (f *fakeMatches) ListByCandidate(context.Context, uuid.UUID) ([]repository.CandidateMatchRow, error) {
	return nil, nil
}

func (f *fakeMatches) MissingByCandidate(context.Context, uuid.UUID) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.missing, nil
}

func (f *fakeMatches) BestForEmployer(_ context.Context, resumeID, employerID uuid.UUID) (repository.CandidateMatchRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.best[employerID]
	if !ok || m.ResumeID != resumeID {
		return repository.CandidateMatchRow{}, repository.ErrMatchNotFound
	}
	return m, nil
}

type fakeShortlists struct {
	mu    sync.Mutex
	items []match.Shortlist
}

func (f *fakeShortlists) Upsert(_ context.Context, s match.Shortlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, s)
	return nil
}

type fakeAudit struct {
	entries []repository.AuditEntry
}

func (f *fakeAudit) Create(_ context.Context, e repository.AuditEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]storage.Object
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]storage.Object{}}
}

func (f *fakeStore) Put(_ context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = storage.Object{Body: body, ContentType: contentType}
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return storage.Object{}, storage.ErrObjectNotFound
	}
	return obj, nil
}

type fakeExtractor struct {
	parsed    resume.Parsed
	err       error
	calls     int
	onExtract func()
}

func (f *fakeExtractor) ExtractResume(context.Context, string) (resume.Parsed, error) {
	f.calls++
	if f.onExtract != nil {
		f.onExtract()
	}
	return f.parsed, f.err
}

type fakePublisher struct {
	reqs []queue.ParseRequest
	err  error
}

func (f *fakePublisher) PublishParse(_ context.Context, req queue.ParseRequest) error {
	if f.err != nil {
		return f.err
	}
	f.reqs = append(f.reqs, req)
	return nil
}

type sentEvent struct {
	UserID uuid.UUID
	Event  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeNotifier) Notify(userID uuid.UUID, event string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{UserID: userID, Event: event})
}

// memCache is a map backed Cache.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

func (c *memCache) DeleteIfValue(_ context.Context, key string, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; !ok || string(v) != value {
		return false, nil
	}
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return true, nil
}
