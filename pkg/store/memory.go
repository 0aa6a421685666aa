package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// MemoryStore is an in-memory Store implementation, used by the dev server
// and as the reference behaviour for tests. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]User               // keyed by lowercased email
	templates map[string][]*schema.Template // keyed by job id, version order
	responses map[string]Response           // keyed by response id

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]User),
		templates: make(map[string][]*schema.Template),
		responses: make(map[string]Response),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source. Tests only.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now != nil {
		m.now = now
	}
}

func (m *MemoryStore) EnsureUser(_ context.Context, email, displayName string) (User, error) {
	key := normalizeEmail(email)
	if key == "" {
		return User{}, fmt.Errorf("store: email is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[key]; ok {
		return user.clone(), nil
	}
	user := User{
		ID:          uuid.NewString(),
		Email:       key,
		DisplayName: displayName,
		CreatedAt:   m.now(),
	}
	m.users[key] = user
	return user.clone(), nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[normalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return user.clone(), nil
}

func (m *MemoryStore) AssignJob(_ context.Context, userID, jobID string) (User, error) {
	if jobID == "" {
		return User{}, fmt.Errorf("store: job id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, user := range m.users {
		if user.ID != userID {
			continue
		}
		for _, assigned := range user.Jobs {
			if assigned == jobID {
				return user.clone(), nil
			}
		}
		user.Jobs = append(user.Jobs, jobID)
		m.users[key] = user
		return user.clone(), nil
	}
	return User{}, ErrNotFound
}

// SaveTemplate stores a copy of the template as the next version and archives
// the previously active one. The caller's template is not mutated.
func (m *MemoryStore) SaveTemplate(_ context.Context, tmpl *schema.Template) (*schema.Template, error) {
	if tmpl == nil || tmpl.JobID == "" {
		return nil, fmt.Errorf("store: template with job id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.templates[tmpl.JobID]
	for _, existing := range versions {
		existing.Status = schema.StatusArchived
	}

	stored := *tmpl
	stored.Version = len(versions) + 1
	stored.Status = schema.StatusActive
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now()
	}
	m.templates[tmpl.JobID] = append(versions, &stored)
	return cloneTemplate(&stored), nil
}

func (m *MemoryStore) ActiveTemplate(_ context.Context, jobID string) (*schema.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tmpl := range m.templates[jobID] {
		if tmpl.Status == schema.StatusActive {
			return cloneTemplate(tmpl), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) TemplateVersions(_ context.Context, jobID string) ([]*schema.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.templates[jobID]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	out := make([]*schema.Template, len(versions))
	for i, tmpl := range versions {
		out[i] = cloneTemplate(tmpl)
	}
	return out, nil
}

func (m *MemoryStore) ArchiveTemplate(_ context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tmpl := range m.templates[jobID] {
		if tmpl.Status == schema.StatusActive {
			tmpl.Status = schema.StatusArchived
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) GetOrCreateDraft(_ context.Context, jobID, userID string) (Response, error) {
	if jobID == "" || userID == "" {
		return Response{}, fmt.Errorf("store: job id and user id are required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, resp := range m.responses {
		if resp.JobID == jobID && resp.UserID == userID && resp.Status == ResponseDraft {
			return resp.clone(), nil
		}
	}

	var version int
	for _, tmpl := range m.templates[jobID] {
		if tmpl.Status == schema.StatusActive {
			version = tmpl.Version
			break
		}
	}
	if version == 0 {
		return Response{}, ErrNotFound
	}

	now := m.now()
	resp := Response{
		ID:              uuid.NewString(),
		JobID:           jobID,
		UserID:          userID,
		TemplateVersion: version,
		Data:            session.ResponseData{},
		Status:          ResponseDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.responses[resp.ID] = resp
	return resp.clone(), nil
}

func (m *MemoryStore) Response(_ context.Context, responseID string) (Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp, ok := m.responses[responseID]
	if !ok {
		return Response{}, ErrNotFound
	}
	return resp.clone(), nil
}

func (m *MemoryStore) SaveResponseData(_ context.Context, responseID string, data session.ResponseData) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, ok := m.responses[responseID]
	if !ok {
		return Response{}, ErrNotFound
	}
	if resp.Status == ResponseSubmitted {
		return Response{}, ErrSubmitted
	}

	resp.Data = data.Clone()
	resp.UpdatedAt = m.now()
	m.responses[responseID] = resp
	return resp.clone(), nil
}

func (m *MemoryStore) SubmitResponse(_ context.Context, responseID string) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, ok := m.responses[responseID]
	if !ok {
		return Response{}, ErrNotFound
	}
	if resp.Status == ResponseSubmitted {
		return Response{}, ErrSubmitted
	}

	now := m.now()
	resp.Status = ResponseSubmitted
	resp.SubmittedAt = &now
	resp.UpdatedAt = now
	m.responses[responseID] = resp
	return resp.clone(), nil
}

func (m *MemoryStore) ResponsesByJob(_ context.Context, jobID string) ([]Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Response
	for _, resp := range m.responses {
		if resp.JobID == jobID {
			out = append(out, resp.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) ResponsesByUser(_ context.Context, userID string) ([]Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Response
	for _, resp := range m.responses {
		if resp.UserID == userID {
			out = append(out, resp.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// cloneTemplate detaches a stored template from the caller. Archiving
// mutates stored Status values, so pointers must never leave the store.
func cloneTemplate(tmpl *schema.Template) *schema.Template {
	out := *tmpl
	out.Fields = append([]schema.Field(nil), tmpl.Fields...)
	out.Groups = append([]string(nil), tmpl.Groups...)
	return &out
}

func (u User) clone() User {
	out := u
	out.Jobs = append([]string(nil), u.Jobs...)
	return out
}

func (r Response) clone() Response {
	out := r
	out.Data = r.Data.Clone()
	if r.SubmittedAt != nil {
		ts := *r.SubmittedAt
		out.SubmittedAt = &ts
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
