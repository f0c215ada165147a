package finance

import (
	"context"
	"errors"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayableService drives the payable workflow. Every mutation runs in a single
// transaction covering the payable, its child records, the history entry and
// the job sheet rollup; notifications and mails are dispatched only after the
// transaction committed.
type PayableService struct {
	scope    TransactionScope
	storage  FileStorage
	notifier Notifier
	mailer   Mailer
	events   EventPublisher
	partners PartnerDirectory
	rollup   *finance.RollupService
	logger   *zap.Logger
}

// NewPayableService creates a new PayableService
func NewPayableService(
	scope TransactionScope,
	storage FileStorage,
	notifier Notifier,
	mailer Mailer,
	events EventPublisher,
	partners PartnerDirectory,
	logger *zap.Logger,
) *PayableService {
	return &PayableService{
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

// Create submits a new payable under a job sheet. Attachments are uploaded
// before the transaction; an upload failure aborts the whole operation, and
// uploaded files are removed again if the transaction fails afterwards.
func (s *PayableService) Create(ctx context.Context, actor Actor, req CreatePayableRequest) (*PayableResponse, error) {
	prices, err := toPriceInputs(req.Prices)
	if err != nil {
		return nil, err
	}
	if len(req.Files) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "At least one attachment is required")
	}

	stored, err := s.storage.Upload(ctx, req.Files)
	if err != nil {
		return nil, err
	}
	fileInputs := make([]finance.FileInput, 0, len(stored))
	for _, f := range stored {
		fileInputs = append(fileInputs, finance.FileInput{FileName: f.FileName, URL: f.URL})
	}

	restricted, err := s.partners.RestrictedPlan(ctx, actor.CompanyID)
	if err != nil {
		s.cleanupFiles(ctx, stored)
		return nil, err
	}

	var payable *finance.Payable
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if restricted && req.InvoiceNumber != "" {
			taken, err := repos.PayableRepo().ExistsByInvoiceNumber(ctx, actor.CompanyID, req.InvoiceNumber, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("VALIDATION_FAILED", "Invoice number is already in use")
			}
		}

		payable, err = finance.NewPayable(
			actor.CompanyID, req.JobSheetNumber, req.VendorName, req.InvoiceNumber,
			req.PayableDate, req.DueDate, req.Note, prices, fileInputs,
			finance.ActorRef{ID: actor.ID, Name: actor.Name},
		)
		if err != nil {
			return err
		}
		payable.SetCreatedBy(actor.ID)
		if err := repos.PayableRepo().Save(ctx, payable); err != nil {
			return err
		}

		if err := ensureJobSheet(ctx, repos, actor.CompanyID, req.JobSheetNumber, req.CustomerID, finance.JobSheetItemTypeAP); err != nil {
			return err
		}
		return s.rollupPayables(ctx, repos, actor.CompanyID, req.JobSheetNumber)
	})
	if err != nil {
		s.cleanupFiles(ctx, stored)
		return nil, err
	}

	s.publishEvents(ctx, payable)
	s.notifyApproval(ctx, actor, payable, "WAITING_APPROVAL")
	return ToPayableResponse(payable), nil
}

// Approval decides a pending payable. Only managers and admins may call it.
func (s *PayableService) Approval(ctx context.Context, actor Actor, payableID uuid.UUID, req PayableApprovalRequest) (*PayableResponse, error) {
	if !actor.Role.CanApprove() {
		return nil, shared.ErrUnauthorized
	}

	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payable, err = repos.PayableRepo().FindByIDForCompany(ctx, actor.CompanyID, payableID)
		if err != nil {
			return err
		}

		actorRef := finance.ActorRef{ID: actor.ID, Name: actor.Name}
		switch req.Action {
		case ApprovalActionApproved:
			err = payable.Approve(actorRef)
		case ApprovalActionRejected:
			err = payable.Reject(req.RejectReason, actorRef)
		default:
			err = shared.NewDomainError("VALIDATION_FAILED", "Approval action must be APPROVED or REJECTED")
		}
		if err != nil {
			return err
		}

		if err := repos.PayableRepo().SaveWithLock(ctx, payable); err != nil {
			return err
		}
		return s.rollupPayables(ctx, repos, actor.CompanyID, payable.JobSheetNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payable)
	s.notifyApproval(ctx, actor, payable, payable.Status.String())
	return ToPayableResponse(payable), nil
}

// Revise resubmits a rejected payable with replacement price lines and
// attachment changes.
func (s *PayableService) Revise(ctx context.Context, actor Actor, payableID uuid.UUID, req RevisePayableRequest) (*PayableResponse, error) {
	prices, err := toPriceInputs(req.Prices)
	if err != nil {
		return nil, err
	}

	var stored []StoredFile
	if len(req.NewFiles) > 0 {
		stored, err = s.storage.Upload(ctx, req.NewFiles)
		if err != nil {
			return nil, err
		}
	}
	fileInputs := make([]finance.FileInput, 0, len(stored))
	for _, f := range stored {
		fileInputs = append(fileInputs, finance.FileInput{FileName: f.FileName, URL: f.URL})
	}

	restricted, err := s.partners.RestrictedPlan(ctx, actor.CompanyID)
	if err != nil {
		s.cleanupFiles(ctx, stored)
		return nil, err
	}

	var payable *finance.Payable
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payable, err = repos.PayableRepo().FindByIDForCompany(ctx, actor.CompanyID, payableID)
		if err != nil {
			return err
		}

		if restricted && payable.InvoiceNumber != "" {
			taken, err := repos.PayableRepo().ExistsByInvoiceNumber(ctx, actor.CompanyID, payable.InvoiceNumber, payable.ID)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("VALIDATION_FAILED", "Invoice number is already in use")
			}
		}

		if err := payable.Revise(prices, req.DeleteFileIDs, fileInputs, finance.ActorRef{ID: actor.ID, Name: actor.Name}); err != nil {
			return err
		}
		if err := repos.PayableRepo().SaveWithLock(ctx, payable); err != nil {
			return err
		}
		return s.rollupPayables(ctx, repos, actor.CompanyID, payable.JobSheetNumber)
	})
	if err != nil {
		s.cleanupFiles(ctx, stored)
		return nil, err
	}

	s.publishEvents(ctx, payable)
	s.notifyApproval(ctx, actor, payable, "WAITING_APPROVAL")
	return ToPayableResponse(payable), nil
}

// RecordPayment records a payment against an approved payable
func (s *PayableService) RecordPayment(ctx context.Context, actor Actor, payableID uuid.UUID, req PaymentRequest) (*PayableResponse, error) {
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

	var payable *finance.Payable
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payable, err = repos.PayableRepo().FindByIDForCompany(ctx, actor.CompanyID, payableID)
		if err != nil {
			return err
		}

		_, err = payable.RecordPayment(currency, req.AmountPaid, req.PaymentDate, req.BankRef, proofURL,
			finance.ActorRef{ID: actor.ID, Name: actor.Name})
		if err != nil {
			return err
		}
		if err := repos.PayableRepo().SaveWithLock(ctx, payable); err != nil {
			return err
		}
		return s.rollupPayables(ctx, repos, actor.CompanyID, payable.JobSheetNumber)
	})
	if err != nil {
		s.cleanupFiles(ctx, stored)
		return nil, err
	}

	s.publishEvents(ctx, payable)
	s.notifyApproval(ctx, actor, payable, payable.Status.String())
	return ToPayableResponse(payable), nil
}

// DeletePayment soft-voids a payment record
func (s *PayableService) DeletePayment(ctx context.Context, actor Actor, payableID, paymentID uuid.UUID) (*PayableResponse, error) {
	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payable, err = repos.PayableRepo().FindByIDForCompany(ctx, actor.CompanyID, payableID)
		if err != nil {
			return err
		}

		if err := payable.VoidPayment(paymentID, finance.ActorRef{ID: actor.ID, Name: actor.Name}); err != nil {
			return err
		}
		if err := repos.PayableRepo().SaveWithLock(ctx, payable); err != nil {
			return err
		}
		return s.rollupPayables(ctx, repos, actor.CompanyID, payable.JobSheetNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payable)
	s.notifyApproval(ctx, actor, payable, payable.Status.String())
	return ToPayableResponse(payable), nil
}

// SendRemittance records a remittance entry and mails a notice per payment to
// every recipient. The ledger maps are never touched.
func (s *PayableService) SendRemittance(ctx context.Context, actor Actor, payableID uuid.UUID, req RemittanceRequest) (*PayableResponse, error) {
	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payable, err = repos.PayableRepo().FindByIDForCompany(ctx, actor.CompanyID, payableID)
		if err != nil {
			return err
		}

		if err := payable.RecordRemittance(req.PaymentIDs, finance.ActorRef{ID: actor.ID, Name: actor.Name}); err != nil {
			return err
		}
		return repos.PayableRepo().SaveWithLock(ctx, payable)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payable)
	for _, paymentID := range req.PaymentIDs {
		payment := payable.FindActivePayment(paymentID)
		if payment == nil {
			continue
		}
		paid := payment.Paid()
		for _, recipient := range req.Recipients {
			mail := RemittanceMail{
				RecipientEmail: recipient,
				VendorName:     payable.VendorName,
				JobSheetNumber: payable.JobSheetNumber,
				Message:        req.Message,
				Currency:       paid.Currency().String(),
				Amount:         paid.Amount().StringFixed(2),
				BankRef:        payment.BankRef,
				PaymentDate:    payment.PaymentDate.Format("2006-01-02"),
			}
			if err := s.mailer.SendRemittance(ctx, mail); err != nil {
				s.logger.Warn("remittance mail failed",
					zap.String("payable_id", payable.ID.String()),
					zap.String("recipient", recipient),
					zap.Error(err))
			}
		}
	}
	return ToPayableResponse(payable), nil
}

// Get loads a payable scoped to the actor's company
func (s *PayableService) Get(ctx context.Context, actor Actor, payableID uuid.UUID) (*PayableResponse, error) {
	var payable *finance.Payable
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payable, err = repos.PayableRepo().FindByIDForCompany(ctx, actor.CompanyID, payableID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToPayableResponse(payable), nil
}

// List returns payables for the actor's company with filtering
func (s *PayableService) List(ctx context.Context, actor Actor, filter finance.PayableFilter) (shared.Paginated[PayableResponse], error) {
	var page shared.Paginated[finance.Payable]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.PayableRepo().FindAllForCompany(ctx, actor.CompanyID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[PayableResponse]{}, err
	}

	items := make([]PayableResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *ToPayableResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ensureJobSheet loads the job sheet for a number, creating it on the first
// submission and widening its item type when the other side appears.
func ensureJobSheet(
	ctx context.Context,
	repos TransactionalRepositories,
	companyID uuid.UUID,
	jobSheetNumber string,
	customerID uuid.UUID,
	itemType finance.JobSheetItemType,
) error {
	js, err := repos.JobSheetRepo().FindByNumber(ctx, companyID, jobSheetNumber)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		js, err = finance.NewJobSheet(companyID, jobSheetNumber, itemType, customerID)
		if err != nil {
			return err
		}
		return repos.JobSheetRepo().Save(ctx, js)
	}

	js.EnsureItemType(itemType)
	return repos.JobSheetRepo().Save(ctx, js)
}

// rollupPayables rebuilds the parent's AP status histogram from all children
// in the same transaction as the triggering mutation.
func (s *PayableService) rollupPayables(ctx context.Context, repos TransactionalRepositories, companyID uuid.UUID, jobSheetNumber string) error {
	statuses, err := repos.PayableRepo().StatusesByJobSheet(ctx, companyID, jobSheetNumber)
	if err != nil {
		return err
	}
	js, err := repos.JobSheetRepo().FindByNumber(ctx, companyID, jobSheetNumber)
	if err != nil {
		return err
	}
	js.ApplyAPRollup(s.rollup.BuildHistogram(statuses))
	return repos.JobSheetRepo().SaveWithLock(ctx, js)
}

// publishEvents drains the domain events the committed mutation raised;
// publish failures are logged, never returned.
func (s *PayableService) publishEvents(ctx context.Context, payable *finance.Payable) {
	events := payable.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	payable.ClearDomainEvents()
	if err := s.events.Publish(ctx, events); err != nil {
		s.logger.Warn("domain event publish failed",
			zap.String("payable_id", payable.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err))
	}
}

// notifyApproval sends the post-commit in-app notification; failures are
// logged, never returned.
func (s *PayableService) notifyApproval(ctx context.Context, actor Actor, payable *finance.Payable, actionStatus string) {
	note := InternalApprovalNote{
		ActorID:      actor.ID,
		ActorName:    actor.Name,
		CompanyID:    actor.CompanyID,
		DomainType:   "JOB_SHEET_PAYABLE",
		ActionStatus: actionStatus,
		Payload: map[string]any{
			"payable_id":       payable.ID.String(),
			"job_sheet_number": payable.JobSheetNumber,
			"vendor_name":      payable.VendorName,
		},
		Broadcast: true,
	}
	if err := s.notifier.NotifyInternalApproval(ctx, note); err != nil {
		s.logger.Warn("approval notification failed",
			zap.String("payable_id", payable.ID.String()),
			zap.String("action_status", actionStatus),
			zap.Error(err))
	}
}

// cleanupFiles best-effort deletes files uploaded for a mutation that failed
func (s *PayableService) cleanupFiles(ctx context.Context, stored []StoredFile) {
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
