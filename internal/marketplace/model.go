package marketplace

import (
	"time"

	"github.com/shopspring/decimal"
)

// Visibility controls who can see a template in the marketplace.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether the visibility is one of the closed set.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// PurchaseStatus tracks the terminal state of a settlement.
type PurchaseStatus string

const (
	PurchaseSuccess PurchaseStatus = "success"
	PurchaseFailed  PurchaseStatus = "failed"
)

// Template is a sellable legal-document template. Fields name the
// placeholders substituted into the content on generation.
type Template struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"user"`
	BuyerID    string          `json:"buyer,omitempty"`
	Title      string          `json:"title"`
	Fields     []string        `json:"fields"`
	Content    string          `json:"content"`
	Price      decimal.Decimal `json:"price"`
	Visibility Visibility      `json:"visibility"`
	Type       string          `json:"template_type"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Purchase records a completed template settlement. Created once per
// successful settlement; immutable thereafter.
type Purchase struct {
	ID         string          `json:"id"`
	BuyerID    string          `json:"user"`
	TemplateID string          `json:"template"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference"`
	Status     PurchaseStatus  `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}
