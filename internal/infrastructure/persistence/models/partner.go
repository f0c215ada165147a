package models

import (
	"github.com/google/uuid"
)

// Partner kinds
const (
	PartnerKindCustomer   = "CUSTOMER"
	PartnerKindThirdParty = "THIRD_PARTY"
)

// PartnerModel is a read model over customer and third-party master data
// replicated from the partner service. It backs payment-term resolution.
type PartnerModel struct {
	BaseModel
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"not null;size:20"`
	Name        string    `gorm:"not null;size:255"`
	Email       string    `gorm:"size:255"`
	PaymentTerm string    `gorm:"size:50"`
}

// TableName returns the table name for PartnerModel
func (PartnerModel) TableName() string {
	return "partners"
}

// CompanyPlanModel stores the pricing-plan flags of a company
type CompanyPlanModel struct {
	CompanyID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlanCode   string    `gorm:"not null;size:50"`
	Restricted bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for CompanyPlanModel
func (CompanyPlanModel) TableName() string {
	return "company_plans"
}
