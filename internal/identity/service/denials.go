package service

import (
	"context"
	"log/slog"

	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/audit"
)

// DenialAuditor records role denials from the auth middleware as audit events.
type DenialAuditor struct {
	emitter *auditEmitter
}

func NewDenialAuditor(publisher AuditPublisher, logger *slog.Logger) *DenialAuditor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DenialAuditor{emitter: newAuditEmitter(logger, publisher)}
}

func (d *DenialAuditor) RecordDenied(ctx context.Context, accountID id.AccountID, role, path string) {
	d.emitter.emit(ctx, audit.EventRoleDenied, accountID, audit.Event{Subject: path, Reason: "role " + role})
}
