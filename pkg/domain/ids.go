// Package domain holds typed identifiers shared across modules. Each ID is a
// distinct named UUID type so an AccountID can never be passed where a
// ProfileID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "peoplehub/pkg/domain-errors"
)

type (
	AccountID    uuid.UUID
	ProfileID    uuid.UUID
	AttendanceID uuid.UUID
	DocumentID   uuid.UUID
	EventID      uuid.UUID
	ActivityID   uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

func unmarshalUUID(dst *uuid.UUID, text []byte) error {
	if len(text) == 0 {
		*dst = uuid.Nil
		return nil
	}
	return dst.UnmarshalText(text)
}

// ParseAccountID validates and converts a string into an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID("account ID", s)
	return AccountID(u), err
}

func NewAccountID() AccountID { return AccountID(uuid.New()) }
func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AccountID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AccountID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AccountID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }

// ParseProfileID validates and converts a string into a ProfileID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := parseUUID("profile ID", s)
	return ProfileID(u), err
}

func NewProfileID() ProfileID { return ProfileID(uuid.New()) }
func (id ProfileID) String() string { return uuid.UUID(id).String() }
func (id ProfileID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProfileID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ProfileID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }

// ParseAttendanceID validates and converts a string into an AttendanceID.
func ParseAttendanceID(s string) (AttendanceID, error) {
	u, err := parseUUID("attendance ID", s)
	return AttendanceID(u), err
}

func NewAttendanceID() AttendanceID { return AttendanceID(uuid.New()) }
func (id AttendanceID) String() string { return uuid.UUID(id).String() }
func (id AttendanceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AttendanceID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AttendanceID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }

// ParseDocumentID validates and converts a string into a DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID("document ID", s)
	return DocumentID(u), err
}

func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *DocumentID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }

// ParseEventID validates and converts a string into an EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID("event ID", s)
	return EventID(u), err
}

func NewEventID() EventID { return EventID(uuid.New()) }
func (id EventID) String() string { return uuid.UUID(id).String() }
func (id EventID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id EventID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *EventID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }

// ParseActivityID validates and converts a string into an ActivityID.
func ParseActivityID(s string) (ActivityID, error) {
	u, err := parseUUID("activity ID", s)
	return ActivityID(u), err
}

func NewActivityID() ActivityID { return ActivityID(uuid.New()) }
func (id ActivityID) String() string { return uuid.UUID(id).String() }
func (id ActivityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ActivityID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ActivityID) UnmarshalText(b []byte) error { return unmarshalUUID((*uuid.UUID)(id), b) }
