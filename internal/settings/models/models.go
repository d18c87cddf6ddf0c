package models

import (
	"strings"
	"time"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
)

// clockLayout is the wall-clock format of the workday bounds.
const clockLayout = "15:04"

// Settings is the single company-wide configuration record.
type Settings struct {
	CompanyName  string        `json:"company_name"`
	Timezone     string        `json:"timezone"`
	WorkdayStart string        `json:"workday_start"`
	WorkdayEnd   string        `json:"workday_end"`
	UpdatedBy    *id.AccountID `json:"updated_by,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Defaults is served until an admin saves settings for the first time.
func Defaults() *Settings {
	return &Settings{
		CompanyName:  "PeopleHub",
		Timezone:     "UTC",
		WorkdayStart: "09:00",
		WorkdayEnd:   "17:00",
	}
}

// Location falls back to UTC for an unknown zone.
func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorkDate is the calendar date of t in the company timezone.
func (s *Settings) WorkDate(t time.Time) string {
	return t.In(s.Location()).Format(time.DateOnly)
}

// IsLate reports whether t is after the start of that day's workday.
func (s *Settings) IsLate(t time.Time) bool {
	start, err := time.Parse(clockLayout, s.WorkdayStart)
	if err != nil {
		return false
	}
	local := t.In(s.Location())
	startOfWork := time.Date(local.Year(), local.Month(), local.Day(), start.Hour(), start.Minute(), 0, 0, local.Location())
	return local.After(startOfWork)
}

type UpdateSettingsRequest struct {
	CompanyName  *string `json:"company_name,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	WorkdayStart *string `json:"workday_start,omitempty"`
	WorkdayEnd   *string `json:"workday_end,omitempty"`
}

func (r *UpdateSettingsRequest) Normalize() {
	for _, f := range []*string{r.CompanyName, r.Timezone, r.WorkdayStart, r.WorkdayEnd} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateSettingsRequest) Validate() error {
	if r.CompanyName != nil && *r.CompanyName == "" {
		return dErrors.New(dErrors.CodeValidation, "company_name cannot be blank")
	}
	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil || *r.Timezone == "" {
			return dErrors.New(dErrors.CodeValidation, "timezone must be an IANA zone name")
		}
	}
	for _, f := range []*string{r.WorkdayStart, r.WorkdayEnd} {
		if f == nil {
			continue
		}
		if _, err := time.Parse(clockLayout, *f); err != nil {
			return dErrors.New(dErrors.CodeValidation, "workday bounds must be HH:MM")
		}
	}
	return nil
}

// Apply returns a copy of current with the request's fields written over it.
func (r *UpdateSettingsRequest) Apply(current *Settings, actor id.AccountID, now time.Time) (*Settings, error) {
	next := *current
	if r.CompanyName != nil {
		next.CompanyName = *r.CompanyName
	}
	if r.Timezone != nil {
		next.Timezone = *r.Timezone
	}
	if r.WorkdayStart != nil {
		next.WorkdayStart = *r.WorkdayStart
	}
	if r.WorkdayEnd != nil {
		next.WorkdayEnd = *r.WorkdayEnd
	}
	start, _ := time.Parse(clockLayout, next.WorkdayStart)
	end, _ := time.Parse(clockLayout, next.WorkdayEnd)
	if !end.After(start) {
		return nil, dErrors.New(dErrors.CodeValidation, "workday_end must be after workday_start")
	}
	next.UpdatedBy = &actor
	next.UpdatedAt = now
	return &next, nil
}
