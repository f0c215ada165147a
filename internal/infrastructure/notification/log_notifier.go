// Package notification provides outbound notification and mail delivery
// adapters. The log-backed implementations stand in until the notification
// service integration lands; callers already treat delivery as best-effort.
package notification

import (
	"context"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	"go.uber.org/zap"
)

// Ensure LogNotifier implements Notifier
var _ appfinance.Notifier = (*LogNotifier)(nil)

// LogNotifier records internal approval notifications to the application log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notifier")}
}

// NotifyInternalApproval logs the approval notification payload
func (n *LogNotifier) NotifyInternalApproval(ctx context.Context, note appfinance.InternalApprovalNote) error {
	recipients := make([]string, 0, len(note.RecipientIDs))
	for _, id := range note.RecipientIDs {
		recipients = append(recipients, id.String())
	}
	n.logger.Info("Internal approval notification",
		zap.String("domain_type", note.DomainType),
		zap.String("action_status", note.ActionStatus),
		zap.String("actor_id", note.ActorID.String()),
		zap.String("actor_name", note.ActorName),
		zap.String("company_id", note.CompanyID.String()),
		zap.Bool("broadcast", note.Broadcast),
		zap.Strings("recipient_ids", recipients),
		zap.Any("payload", note.Payload),
	)
	return nil
}
