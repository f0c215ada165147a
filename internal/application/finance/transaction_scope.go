package finance

import (
	"context"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/finance"
)

// TransactionScope provides transactional access to the finance repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Every workflow operation runs exactly one scope: line-item
// writes, the parent update, the history insert and the job sheet rollup all
// live inside it.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all finance repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// Aggregate boundary notes:
//   - PayableRepo / InvoiceRepo: price lines, payments, histories and files
//     are child records of their aggregate and are persisted through the
//     aggregate save, never independently.
//   - JobSheetRepo: the job sheet is its own aggregate; the rollup mutates it
//     in the same transaction as the triggering child mutation.
type TransactionalRepositories interface {
	// PayableRepo returns the payable repository scoped to the current transaction
	PayableRepo() finance.PayableRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() finance.InvoiceRepository
	// JobSheetRepo returns the job sheet repository scoped to the current transaction
	JobSheetRepo() finance.JobSheetRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	payableRepo  finance.PayableRepository
	invoiceRepo  finance.InvoiceRepository
	jobSheetRepo finance.JobSheetRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	payableRepo finance.PayableRepository,
	invoiceRepo finance.InvoiceRepository,
	jobSheetRepo finance.JobSheetRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		payableRepo:  payableRepo,
		invoiceRepo:  invoiceRepo,
		jobSheetRepo: jobSheetRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// PayableRepo returns the payable repository.
func (s *NoOpTransactionScope) PayableRepo() finance.PayableRepository {
	return s.payableRepo
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() finance.InvoiceRepository {
	return s.invoiceRepo
}

// JobSheetRepo returns the job sheet repository.
func (s *NoOpTransactionScope) JobSheetRepo() finance.JobSheetRepository {
	return s.jobSheetRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
