package models

import (
	"strings"
	"time"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusRemote  Status = "remote"
	StatusAbsent  Status = "absent"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusRemote, StatusAbsent:
		return true
	}
	return false
}

// Record is one account's attendance for one work date.
type Record struct {
	ID        id.AttendanceID `json:"id"`
	AccountID id.AccountID    `json:"account_id"`
	WorkDate  string          `json:"work_date"`
	CheckIn   time.Time       `json:"check_in"`
	CheckOut  *time.Time      `json:"check_out,omitempty"`
	Status    Status          `json:"status"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Patch struct {
	CheckOut *time.Time
	Status   *Status
	Note     *string
}

func (p Patch) Apply(r *Record, now time.Time) {
	if p.CheckOut != nil {
		t := *p.CheckOut
		r.CheckOut = &t
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Note != nil {
		r.Note = *p.Note
	}
	r.UpdatedAt = now
}

type CheckInRequest struct {
	Remote bool   `json:"remote"`
	Note   string `json:"note,omitempty"`
}

func (r *CheckInRequest) Normalize() {
	r.Note = strings.TrimSpace(r.Note)
}

// UpdateRequest checks a record out, corrects its status or edits the note.
type UpdateRequest struct {
	CheckOut bool    `json:"check_out"`
	Status   *Status `json:"status,omitempty"`
	Note     *string `json:"note,omitempty"`
}

func (r *UpdateRequest) Normalize() {
	if r.Note != nil {
		*r.Note = strings.TrimSpace(*r.Note)
	}
}

func (r *UpdateRequest) Validate() error {
	if !r.CheckOut && r.Status == nil && r.Note == nil {
		return dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	if r.Status != nil && !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of present, late, remote, absent")
	}
	return nil
}
