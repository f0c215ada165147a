package finance

import (
	"context"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EditInvoice proposes a revision of an issued invoice. For staff the
// revision waits for a manager's decision and an edit-request mail goes out
// after commit; managers and admins auto-approve in the same call.
func (s *ReceivableService) EditInvoice(ctx context.Context, actor Actor, invoiceID uuid.UUID, req EditInvoiceRequest) (*InvoiceResponse, error) {
	prices, err := toPriceInputs(req.Prices)
	if err != nil {
		return nil, err
	}
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}
	input := finance.RevisionInput{
		InvoiceNumber:  req.InvoiceNumber,
		RecipientEmail: req.RecipientEmail,
		InvoiceDate:    req.InvoiceDate,
		PaymentTerm:    req.PaymentTerm,
		ThirdPartyID:   req.ThirdPartyID,
		Currency:       currency,
		ExchangeRate:   req.ExchangeRate,
		PPNPercent:     req.PPNPercent,
		Prices:         prices,
	}

	autoApprove := actor.Role.CanApprove()
	var invoice *finance.Invoice
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForCompany(ctx, actor.CompanyID, invoiceID)
		if err != nil {
			return err
		}

		if req.InvoiceNumber != invoice.InvoiceNumber {
			taken, err := repos.InvoiceRepo().ExistsByInvoiceNumber(ctx, req.InvoiceNumber, invoice.ID)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("VALIDATION_FAILED", "Invoice number is already in use")
			}
		}

		actorRef := finance.ActorRef{ID: actor.ID, Name: actor.Name}
		if err := invoice.RequestRevision(input, req.Reason, actorRef); err != nil {
			return err
		}
		if autoApprove {
			if err := invoice.ApplyRevision(actorRef); err != nil {
				return err
			}
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if autoApprove {
			return s.rollupInvoices(ctx, repos, actor.CompanyID, invoice.JobSheetNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !autoApprove && len(req.ApproverEmails) > 0 {
		mail := EditInvoiceRequestMail{
			RecipientEmails: req.ApproverEmails,
			InvoiceNumber:   invoice.InvoiceNumber,
			RequestedBy:     actor.Name,
			Reason:          req.Reason,
		}
		if err := s.mailer.SendEditInvoiceRequest(ctx, mail); err != nil {
			s.logger.Warn("edit invoice request mail failed",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err))
		}
	}
	status := "NEED_APPROVAL"
	if autoApprove {
		status = "APPROVED"
	}
	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, status)
	return ToInvoiceResponse(invoice), nil
}

// EditApprovalInvoice decides a pending invoice revision. Only managers and
// admins may call it; approval overwrites the live invoice, rejection leaves
// it untouched and marks it CHANGES_REJECTED.
func (s *ReceivableService) EditApprovalInvoice(ctx context.Context, actor Actor, invoiceID uuid.UUID, req EditApprovalRequest) (*InvoiceResponse, error) {
	if !actor.Role.CanApprove() {
		return nil, shared.ErrUnauthorized
	}

	var invoice *finance.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForCompany(ctx, actor.CompanyID, invoiceID)
		if err != nil {
			return err
		}

		actorRef := finance.ActorRef{ID: actor.ID, Name: actor.Name}
		switch req.Action {
		case ApprovalActionApproved:
			if invoice.Revision != nil && invoice.Revision.InvoiceNumber != invoice.InvoiceNumber {
				taken, err := repos.InvoiceRepo().ExistsByInvoiceNumber(ctx, invoice.Revision.InvoiceNumber, invoice.ID)
				if err != nil {
					return err
				}
				if taken {
					return shared.NewDomainError("VALIDATION_FAILED", "Invoice number is already in use")
				}
			}
			err = invoice.ApplyRevision(actorRef)
		case ApprovalActionRejected:
			err = invoice.RejectRevision(req.RejectReason, actorRef)
		default:
			err = shared.NewDomainError("VALIDATION_FAILED", "Approval action must be APPROVED or REJECTED")
		}
		if err != nil {
			return err
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		if req.Action == ApprovalActionApproved {
			return s.rollupInvoices(ctx, repos, actor.CompanyID, invoice.JobSheetNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, invoice.Status.String())
	return ToInvoiceResponse(invoice), nil
}
