package finance

import (
	"context"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivableService drives the receivable workflow on the Invoice entity,
// including the edit-with-approval flow for issued invoices. The transaction
// and post-commit side-effect contract matches PayableService.
type ReceivableService struct {
	scope    TransactionScope
	storage  FileStorage
	notifier Notifier
	mailer   Mailer
	events   EventPublisher
	partners PartnerDirectory
	rollup   *finance.RollupService
	logger   *zap.Logger
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(
	scope TransactionScope,
	storage FileStorage,
	notifier Notifier,
	mailer Mailer,
	events EventPublisher,
	partners PartnerDirectory,
	logger *zap.Logger,
) *ReceivableService {
	return &ReceivableService{
		scope:    scope,
		storage:  storage,
		notifier: notifier,
		mailer:   mailer,
		events:   events,
		partners: partners,
		rollup:   finance.NewRollupService(),
		logger:   logger,
	}
}

// Create submits a new receivable invoice under a job sheet. The payment term
// comes from the linked third party when one is set, otherwise from the
// customer record; the invoice number must be unique across all invoices.
func (s *ReceivableService) Create(ctx context.Context, actor Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	prices, err := toPriceInputs(req.Prices)
	if err != nil {
		return nil, err
	}
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	paymentTerm, err := s.partners.PaymentTermFor(ctx, actor.CompanyID, req.CustomerID, req.ThirdPartyID)
	if err != nil {
		return nil, err
	}

	var invoice *finance.Invoice
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		taken, err := repos.InvoiceRepo().ExistsByInvoiceNumber(ctx, req.InvoiceNumber, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("VALIDATION_FAILED", "Invoice number is already in use")
		}

		invoice, err = finance.NewInvoice(
			actor.CompanyID, req.InvoiceNumber, req.JobSheetNumber, req.CustomerID, req.ThirdPartyID,
			req.InvoiceDate, paymentTerm, currency, req.ExchangeRate, req.PPNPercent, prices,
			finance.ActorRef{ID: actor.ID, Name: actor.Name},
		)
		if err != nil {
			return err
		}
		invoice.SetCreatedBy(actor.ID)
		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		if err := ensureJobSheet(ctx, repos, actor.CompanyID, req.JobSheetNumber, req.CustomerID, finance.JobSheetItemTypeAR); err != nil {
			return err
		}
		return s.rollupInvoices(ctx, repos, actor.CompanyID, req.JobSheetNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, "WAITING_APPROVAL")
	return ToInvoiceResponse(invoice), nil
}

// Approval decides a pending invoice or issues an approved one. Only managers
// and admins may call it. Issuing also mails the invoice to the recipient
// after commit.
func (s *ReceivableService) Approval(ctx context.Context, actor Actor, invoiceID uuid.UUID, req InvoiceApprovalRequest) (*InvoiceResponse, error) {
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
			err = invoice.Approve(actorRef)
		case ApprovalActionRejected:
			err = invoice.Reject(req.RejectReason, actorRef)
		case ApprovalActionIssued:
			err = invoice.Issue(req.RecipientEmail, actorRef)
		default:
			err = shared.NewDomainError("VALIDATION_FAILED", "Approval action must be APPROVED, REJECTED or ISSUED")
		}
		if err != nil {
			return err
		}

		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		return s.rollupInvoices(ctx, repos, actor.CompanyID, invoice.JobSheetNumber)
	})
	if err != nil {
		return nil, err
	}

	if req.Action == ApprovalActionIssued {
		mail := IssuedInvoiceMail{
			RecipientEmail: invoice.RecipientEmail,
			InvoiceNumber:  invoice.InvoiceNumber,
			JobSheetNumber: invoice.JobSheetNumber,
			DueDate:        invoice.DueDate.Format("2006-01-02"),
			Currency:       invoice.Currency.String(),
			TotalCurrency:  invoice.TotalCurrency.StringFixed(2),
		}
		if err := s.mailer.SendIssuedInvoice(ctx, mail); err != nil {
			s.logger.Warn("issued invoice mail failed",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("recipient", invoice.RecipientEmail),
				zap.Error(err))
		}
	}
	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, invoice.ARStatus.String())
	return ToInvoiceResponse(invoice), nil
}

// Revise resubmits a rejected invoice with replacement price lines
func (s *ReceivableService) Revise(ctx context.Context, actor Actor, invoiceID uuid.UUID, req ReviseInvoiceRequest) (*InvoiceResponse, error) {
	prices, err := toPriceInputs(req.Prices)
	if err != nil {
		return nil, err
	}

	var invoice *finance.Invoice
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForCompany(ctx, actor.CompanyID, invoiceID)
		if err != nil {
			return err
		}

		if err := invoice.Revise(prices, finance.ActorRef{ID: actor.ID, Name: actor.Name}); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		return s.rollupInvoices(ctx, repos, actor.CompanyID, invoice.JobSheetNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, "WAITING_APPROVAL")
	return ToInvoiceResponse(invoice), nil
}

// RecordPayment records a payment against an issued invoice
func (s *ReceivableService) RecordPayment(ctx context.Context, actor Actor, invoiceID uuid.UUID, req PaymentRequest) (*InvoiceResponse, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", err.Error())
	}

	var proofURL string
	var stored []StoredFile
	if req.Proof != nil {
		stored, err = s.storage.Upload(ctx, []FileUpload{*req.Proof})
		if err != nil {
			return nil, err
		}
		proofURL = stored[0].URL
	}

	var invoice *finance.Invoice
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForCompany(ctx, actor.CompanyID, invoiceID)
		if err != nil {
			return err
		}

		_, err = invoice.RecordPayment(currency, req.AmountPaid, req.PaymentDate, req.BankRef, proofURL,
			finance.ActorRef{ID: actor.ID, Name: actor.Name})
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		return s.rollupInvoices(ctx, repos, actor.CompanyID, invoice.JobSheetNumber)
	})
	if err != nil {
		s.cleanupFiles(ctx, stored)
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, invoice.ARStatus.String())
	return ToInvoiceResponse(invoice), nil
}

// DeletePayment soft-voids a payment record
func (s *ReceivableService) DeletePayment(ctx context.Context, actor Actor, invoiceID, paymentID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *finance.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForCompany(ctx, actor.CompanyID, invoiceID)
		if err != nil {
			return err
		}

		if err := invoice.VoidPayment(paymentID, finance.ActorRef{ID: actor.ID, Name: actor.Name}); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}
		return s.rollupInvoices(ctx, repos, actor.CompanyID, invoice.JobSheetNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)
	s.notifyApproval(ctx, actor, invoice, invoice.ARStatus.String())
	return ToInvoiceResponse(invoice), nil
}

// Get loads an invoice scoped to the actor's company
func (s *ReceivableService) Get(ctx context.Context, actor Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *finance.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForCompany(ctx, actor.CompanyID, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice), nil
}

// List returns invoices for the actor's company with filtering
func (s *ReceivableService) List(ctx context.Context, actor Actor, filter finance.InvoiceFilter) (shared.Paginated[InvoiceResponse], error) {
	var page shared.Paginated[finance.Invoice]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.InvoiceRepo().FindAllForCompany(ctx, actor.CompanyID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}

	items := make([]InvoiceResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *ToInvoiceResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// rollupInvoices rebuilds the parent's AR status histogram from all children
// in the same transaction as the triggering mutation.
func (s *ReceivableService) rollupInvoices(ctx context.Context, repos TransactionalRepositories, companyID uuid.UUID, jobSheetNumber string) error {
	statuses, err := repos.InvoiceRepo().ARStatusesByJobSheet(ctx, companyID, jobSheetNumber)
	if err != nil {
		return err
	}
	js, err := repos.JobSheetRepo().FindByNumber(ctx, companyID, jobSheetNumber)
	if err != nil {
		return err
	}
	js.ApplyARRollup(s.rollup.BuildHistogram(statuses))
	return repos.JobSheetRepo().SaveWithLock(ctx, js)
}

// publishEvents drains the domain events the committed mutation raised;
// publish failures are logged, never returned.
func (s *ReceivableService) publishEvents(ctx context.Context, invoice *finance.Invoice) {
	events := invoice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	invoice.ClearDomainEvents()
	if err := s.events.Publish(ctx, events); err != nil {
		s.logger.Warn("domain event publish failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

func (s *ReceivableService) notifyApproval(ctx context.Context, actor Actor, invoice *finance.Invoice, actionStatus string) {
	note := InternalApprovalNote{
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		CompanyID:    actor.CompanyID,
		DomainType:   "JOB_SHEET_RECEIVABLE",
		ActionStatus: actionStatus,
		Payload: map[string]any{
			"invoice_id":       invoice.ID.String(),
			"invoice_number":   invoice.InvoiceNumber,
			"job_sheet_number": invoice.JobSheetNumber,
		},
		Broadcast: true,
	}
	if err := s.notifier.NotifyInternalApproval(ctx, note); err != nil {
		s.logger.Warn("approval notification failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("action_status", actionStatus),
			zap.Error(err))
	}
}

func (s *ReceivableService) cleanupFiles(ctx context.Context, stored []StoredFile) {
	if len(stored) == 0 {
		return
	}
	names := make([]string, 0, len(stored))
	for _, f := range stored {
		names = append(names, f.FileName)
	}
	if err := s.storage.Delete(ctx, names); err != nil {
		s.logger.Warn("orphaned upload cleanup failed", zap.Strings("files", names), zap.Error(err))
	}
}
