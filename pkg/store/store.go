// Package store persists users, template versions, and form responses. The
// interface mirrors how deployments actually use the engine: one active
// template per job, draft responses that accumulate edits, and a submit step
// that freezes them.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// ErrSubmitted is returned when mutating a response that is already
// submitted.
var ErrSubmitted = errors.New("store: response already submitted")

// User identifies a form filler. Jobs lists the job ids the user is assigned
// to fill.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Jobs        []string  `json:"jobs,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ResponseStatus tracks the response lifecycle.
type ResponseStatus string

const (
	ResponseDraft     ResponseStatus = "draft"
	ResponseSubmitted ResponseStatus = "submitted"
)

// Response is one user's answers against one job's template version.
type Response struct {
	ID              string               `json:"id"`
	JobID           string               `json:"jobId"`
	UserID          string               `json:"userId"`
	TemplateVersion int                  `json:"templateVersion"`
	Data            session.ResponseData `json:"data"`
	Status          ResponseStatus       `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	SubmittedAt     *time.Time           `json:"submittedAt,omitempty"`
}

// Store is the persistence contract the server and CLI depend on.
type Store interface {
	// EnsureUser returns the user with the given email, creating one when
	// absent.
	EnsureUser(ctx context.Context, email, displayName string) (User, error)

	// UserByEmail looks a user up by email.
	UserByEmail(ctx context.Context, email string) (User, error)

	// AssignJob adds a job id to a user's assignment list. Idempotent.
	AssignJob(ctx context.Context, userID, jobID string) (User, error)

	// SaveTemplate stores a template as the next version for its job id and
	// archives the previously active version.
	SaveTemplate(ctx context.Context, tmpl *schema.Template) (*schema.Template, error)

	// ActiveTemplate returns the active template for a job id.
	ActiveTemplate(ctx context.Context, jobID string) (*schema.Template, error)

	// TemplateVersions returns every stored version for a job id, oldest
	// first.
	TemplateVersions(ctx context.Context, jobID string) ([]*schema.Template, error)

	// ArchiveTemplate marks a job's active template archived without
	// replacing it. New drafts cannot open until another version is saved.
	ArchiveTemplate(ctx context.Context, jobID string) error

	// GetOrCreateDraft returns the user's draft response for a job, creating
	// an empty one against the active template version when absent. A
	// submitted response is never reopened; a fresh draft is created instead.
	GetOrCreateDraft(ctx context.Context, jobID, userID string) (Response, error)

	// Response looks a response up by id.
	Response(ctx context.Context, responseID string) (Response, error)

	// SaveResponseData replaces a draft response's data.
	SaveResponseData(ctx context.Context, responseID string, data session.ResponseData) (Response, error)

	// SubmitResponse marks a draft as submitted and stamps the time.
	SubmitResponse(ctx context.Context, responseID string) (Response, error)

	// ResponsesByJob returns every response for a job id, oldest first.
	ResponsesByJob(ctx context.Context, jobID string) ([]Response, error)

	// ResponsesByUser returns every response a user owns, oldest first.
	ResponsesByUser(ctx context.Context, userID string) ([]Response, error)
}
