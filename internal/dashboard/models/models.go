package models

import (
	"strings"
	"time"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
)

// ActivityKind labels entries in the recent-activity feed.
type ActivityKind string

const (
	KindCheckIn       ActivityKind = "attendance.check_in"
	KindCheckOut      ActivityKind = "attendance.check_out"
	KindStatusChanged ActivityKind = "attendance.status_changed"
	KindDocumentAdded ActivityKind = "document.added"
)

type Activity struct {
	ID        id.ActivityID `json:"id"`
	Kind      ActivityKind  `json:"kind"`
	AccountID id.AccountID  `json:"account_id"`
	Summary   string        `json:"summary"`
	CreatedAt time.Time     `json:"created_at"`
}

// Event is a company calendar entry shown on the dashboard.
type Event struct {
	ID          id.EventID   `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	StartsAt    time.Time    `json:"starts_at"`
	CreatedBy   id.AccountID `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
}

func (r *CreateEventRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreateEventRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.StartsAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "starts_at is required")
	}
	return nil
}

// Stats is the headcount summary. Every figure is invalidated by account,
// profile or attendance writes.
type Stats struct {
	Employees    int       `json:"employees"`
	Profiles     int       `json:"profiles"`
	PresentToday int       `json:"present_today"`
	LateToday    int       `json:"late_today"`
	WorkDate     string    `json:"work_date"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// ParseKinds converts raw filter values into kinds.
func ParseKinds(raw []string) []ActivityKind {
	kinds := make([]ActivityKind, 0, len(raw))
	for _, k := range raw {
		kinds = append(kinds, ActivityKind(k))
	}
	return kinds
}
