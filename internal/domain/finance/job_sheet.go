package finance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// JobSheetItemType marks which sides of the ledger a job sheet carries
type JobSheetItemType string

const (
	JobSheetItemTypeAP  JobSheetItemType = "AP"  // payables only
	JobSheetItemTypeAR  JobSheetItemType = "AR"  // receivables only
	JobSheetItemTypeAll JobSheetItemType = "ALL" // both
)

// IsValid checks if the item type is a valid JobSheetItemType
func (t JobSheetItemType) IsValid() bool {
	switch t {
	case JobSheetItemTypeAP, JobSheetItemTypeAR, JobSheetItemTypeAll:
		return true
	}
	return false
}

// StatusCounts is a histogram mapping a child status name to the number of
// non-voided children currently in that status. Stored as a JSON object.
type StatusCounts map[string]int

// Total sums all counts
func (s StatusCounts) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Value implements driver.Valuer for JSONB storage
func (s StatusCounts) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]int(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *StatusCounts) Scan(value any) error {
	if value == nil {
		*s = StatusCounts{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StatusCounts", value)
	}
	if len(data) == 0 {
		*s = StatusCounts{}
		return nil
	}
	return json.Unmarshal(data, (*map[string]int)(s))
}

// JobSheet groups one shipment's financial activity. It is created on the
// first payable or receivable submission and only ever mutated by the status
// rollup; it is never hard-deleted.
type JobSheet struct {
	shared.CompanyAggregateRoot
	JobSheetNumber string           `json:"job_sheet_number"`
	ItemType       JobSheetItemType `json:"item_type"`
	CustomerID     uuid.UUID        `json:"customer_id"`
	APStatus       StatusCounts     `json:"ap_status"`
	ARStatus       StatusCounts     `json:"ar_status"`
}

// NewJobSheet creates a job sheet for the first submission against a number
func NewJobSheet(companyID uuid.UUID, jobSheetNumber string, itemType JobSheetItemType, customerID uuid.UUID) (*JobSheet, error) {
	if jobSheetNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Job sheet number cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Job sheet item type is not valid")
	}
	return &JobSheet{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		JobSheetNumber:       jobSheetNumber,
		ItemType:             itemType,
		CustomerID:           customerID,
		APStatus:             StatusCounts{},
		ARStatus:             StatusCounts{},
	}, nil
}

// EnsureItemType widens the item type when the other ledger side first
// appears on the job sheet.
func (j *JobSheet) EnsureItemType(t JobSheetItemType) {
	if j.ItemType == t || j.ItemType == JobSheetItemTypeAll {
		return
	}
	j.ItemType = JobSheetItemTypeAll
	j.touch()
}

// ApplyAPRollup replaces the payable status histogram wholesale
func (j *JobSheet) ApplyAPRollup(counts StatusCounts) {
	j.APStatus = counts
	j.touch()
}

// ApplyARRollup replaces the receivable status histogram wholesale
func (j *JobSheet) ApplyARRollup(counts StatusCounts) {
	j.ARStatus = counts
	j.touch()
}

func (j *JobSheet) touch() {
	j.Touch()
	j.IncrementVersion()
}
