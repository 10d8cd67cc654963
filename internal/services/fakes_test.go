package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/anudeepvarma123/TalentTrack/internal/models"
	"github.com/anudeepvarma123/TalentTrack/internal/repositories"
)

var errStoreDown = errors.New("store unavailable")

type fakeCredentials struct {
	mu        sync.Mutex
	byEmail   map[string]*models.Credential
	nextID    int64
	err       error
	insertErr error
}

func newFakeCredentials(creds ...models.Credential) *fakeCredentials {
	f := &fakeCredentials{byEmail: map[string]*models.Credential{}}
	for i := range creds {
		c := creds[i]
		f.nextID++
		c.ID = f.nextID
		f.byEmail[c.Email] = &c
	}
	return f
}

func (f *fakeCredentials) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCredentials) insert(c *models.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.byEmail[c.Email] = &cp
	return nil
}

func (f *fakeCredentials) UpdatePasswordHash(_ context.Context, email, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byEmail[email]
	if !ok {
		return false, nil
	}
	c.PasswordHash = hash
	return true, nil
}

type fakeEmployees struct {
	mu       sync.Mutex
	byUserID map[string]*models.EmployeeProfile
	seq      int64
	// credentials receives the credential half of CreateWithCredential.
	credentials *fakeCredentials
}

func newFakeEmployees(profiles ...models.EmployeeProfile) *fakeEmployees {
	f := &fakeEmployees{byUserID: map[string]*models.EmployeeProfile{}}
	for i := range profiles {
		p := profiles[i]
		p.UserID = models.NormalizeUserID(p.UserID)
		f.byUserID[p.UserID] = &p
	}
	return f
}

func (f *fakeEmployees) FindByUserID(_ context.Context, userID string) (*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUserID[models.NormalizeUserID(userID)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeEmployees) FindByEmail(_ context.Context, email string) (*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byUserID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployees) FindByUserIDs(_ context.Context, userIDs []string) (map[string]*models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]*models.EmployeeProfile{}
	for _, id := range userIDs {
		if p, ok := f.byUserID[models.NormalizeUserID(id)]; ok {
			cp := *p
			out[p.UserID] = &cp
		}
	}
	return out, nil
}

func (f *fakeEmployees) List(_ context.Context) ([]models.EmployeeProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.EmployeeProfile{}
	for _, p := range f.byUserID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// CreateWithCredential keeps the profile only when the credential insert
// succeeds, like the transaction in the MySQL store.
func (f *fakeEmployees) CreateWithCredential(_ context.Context, e *models.EmployeeProfile, c *models.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.credentials != nil {
		if err := f.credentials.insert(c); err != nil {
			return err
		}
	}
	e.UserID = models.NormalizeUserID(e.UserID)
	e.ID = int64(len(f.byUserID) + 1)
	cp := *e
	f.byUserID[e.UserID] = &cp
	return nil
}

func (f *fakeEmployees) NextSequence(_ context.Context, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq, nil
}

type fakeLeaves struct {
	mu   sync.Mutex
	rows []models.LeaveRequest
	err  error
}

func (f *fakeLeaves) Insert(_ context.Context, l *models.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	l.UserID = models.NormalizeUserID(l.UserID)
	f.rows = append(f.rows, *l)
	return nil
}

func (f *fakeLeaves) SumApprovedDaysSince(_ context.Context, userID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	total := 0
	for _, l := range f.rows {
		if l.UserID == models.NormalizeUserID(userID) && l.Status == models.LeaveApproved && !l.AppliedAt.Before(since) {
			total += l.DaysRequested
		}
	}
	return total, nil
}

func (f *fakeLeaves) List(_ context.Context, filter repositories.LeaveFilter) ([]models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.LeaveRequest{}
	for _, l := range f.rows {
		if filter.UserID != "" && l.UserID != models.NormalizeUserID(filter.UserID) {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (f *fakeLeaves) LatestPending(ctx context.Context, userID string) (*models.LeaveRequest, error) {
	pending, err := f.List(ctx, repositories.LeaveFilter{UserID: userID, Status: models.LeavePending})
	if err != nil || len(pending) == 0 {
		return nil, err
	}
	return &pending[0], nil
}

func (f *fakeLeaves) Transition(_ context.Context, id string, to models.LeaveStatus, processedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Status == models.LeavePending {
			f.rows[i].Status = to
			f.rows[i].ProcessedAt = &processedAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaves) byID(id string) models.LeaveRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.rows {
		if l.ID == id {
			return l
		}
	}
	return models.LeaveRequest{}
}

type fakeMailer struct {
	to, link string
	err      error
}

func (m *fakeMailer) SendResetEmail(_ context.Context, to, link string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.link = to, link
	return nil
}
