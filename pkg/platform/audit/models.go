package audit

import (
	"context"
	"time"

	id "peoplehub/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers sign-in outcomes and credential changes.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine provisioning activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	AccountID id.AccountID  `json:"account_id"`
	Subject   string        `json:"subject,omitempty"`
	Action    string        `json:"action"`
	Channel   string        `json:"channel,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Email     string        `json:"email,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	// ActorID is set when an administrator acts on another account.
	ActorID string `json:"actor_id,omitempty"`
	IP      string `json:"ip,omitempty"`
	Device  string `json:"device,omitempty"`
}

type AuditEvent string

const (
	EventAccountCreated     AuditEvent = "account_created"
	EventOAuthLinked        AuditEvent = "oauth_linked"
	EventProfileProvisioned AuditEvent = "profile_provisioned"
	EventLoginSucceeded     AuditEvent = "login_succeeded"
	EventAuthFailed         AuditEvent = "auth_failed"
	EventPasswordChanged    AuditEvent = "password_changed"
	EventRoleDenied         AuditEvent = "role_denied"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLoginSucceeded:  CategorySecurity,
	EventAuthFailed:      CategorySecurity,
	EventPasswordChanged: CategorySecurity,
	EventRoleDenied:      CategorySecurity,
	EventOAuthLinked:     CategorySecurity,

	EventAccountCreated:     CategoryOperations,
	EventProfileProvisioned: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations: in-memory, Kafka.
type Store interface {
	Append(ctx context.Context, event Event) error
}
