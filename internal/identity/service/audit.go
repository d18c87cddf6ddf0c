package service

import (
	"context"
	"log/slog"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/audit"
	"peoplehub/pkg/requestcontext"
)

// auditEmitter enriches events with request metadata. Audit failures never
// fail the operation that produced them.
type auditEmitter struct {
	logger    *slog.Logger
	publisher AuditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher AuditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emit(ctx context.Context, action audit.AuditEvent, accountID id.AccountID, attrs audit.Event) {
	event := attrs
	event.Action = string(action)
	event.Category = action.Category()
	event.AccountID = accountID
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.IP = requestcontext.ClientIP(ctx)
	event.Device = audit.DeviceSummary(requestcontext.UserAgent(ctx))

	e.logger.InfoContext(ctx, string(action),
		"account_id", accountID,
		"channel", event.Channel,
		"request_id", event.RequestID,
	)
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish audit event",
			"action", event.Action,
			"error", err,
		)
	}
}

func (e *auditEmitter) loginSucceeded(ctx context.Context, channel string, account *models.Account) {
	e.emit(ctx, audit.EventLoginSucceeded, account.ID, audit.Event{Channel: channel, Email: account.Email})
}

func (e *auditEmitter) authFailed(ctx context.Context, channel, subject, reason string) {
	e.emit(ctx, audit.EventAuthFailed, id.AccountID{}, audit.Event{Channel: channel, Subject: subject, Reason: reason})
}

func (e *auditEmitter) accountCreated(ctx context.Context, channel string, account *models.Account) {
	e.emit(ctx, audit.EventAccountCreated, account.ID, audit.Event{
		Channel: channel,
		Email:   account.Email,
		ActorID: actorOf(ctx, account.ID),
	})
}

func (e *auditEmitter) oauthLinked(ctx context.Context, account *models.Account) {
	e.emit(ctx, audit.EventOAuthLinked, account.ID, audit.Event{Channel: channelOAuth, Subject: account.OAuthSubject})
}

func (e *auditEmitter) profileProvisioned(ctx context.Context, profile *models.Profile) {
	e.emit(ctx, audit.EventProfileProvisioned, profile.OwnerID, audit.Event{Subject: profile.EmployeeCode})
}

func (e *auditEmitter) passwordChanged(ctx context.Context, account *models.Account) {
	e.emit(ctx, audit.EventPasswordChanged, account.ID, audit.Event{Email: account.Email})
}

// actorOf returns the authenticated caller when acting on someone else.
func actorOf(ctx context.Context, subject id.AccountID) string {
	actor := requestcontext.AccountID(ctx)
	if actor.IsNil() || actor == subject {
		return ""
	}
	return actor.String()
}
