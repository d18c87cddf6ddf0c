package models

import (
	"time"

	id "peoplehub/pkg/domain"
)

// Profile is the HR record owned by exactly one Account. It is only ever
// created by the provisioner.
type Profile struct {
	ID           id.ProfileID `json:"id"`
	OwnerID      id.AccountID `json:"owner_id"`
	EmployeeCode string       `json:"employee_code"`
	FullName     string       `json:"full_name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Department   string       `json:"department,omitempty"`
	Position     string       `json:"position,omitempty"`
	JoinedAt     *time.Time   `json:"joined_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type ProfilePatch struct {
	FullName   *string    `json:"full_name,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Department *string    `json:"department,omitempty"`
	Position   *string    `json:"position,omitempty"`
	JoinedAt   *time.Time `json:"joined_at,omitempty"`
}

func (p ProfilePatch) Apply(pr *Profile, now time.Time) {
	if p.FullName != nil {
		pr.FullName = *p.FullName
	}
	if p.Phone != nil {
		pr.Phone = *p.Phone
	}
	if p.Department != nil {
		pr.Department = *p.Department
	}
	if p.Position != nil {
		pr.Position = *p.Position
	}
	if p.JoinedAt != nil {
		t := *p.JoinedAt
		pr.JoinedAt = &t
	}
	pr.UpdatedAt = now
}

// Employee is an account joined with its profile; cached under employee:<id>.
type Employee struct {
	Account AccountView `json:"account"`
	Profile *Profile    `json:"profile"`
}

// Resolution is the outcome of any sign-in channel.
type Resolution struct {
	Account *Account
	Profile *Profile
}
