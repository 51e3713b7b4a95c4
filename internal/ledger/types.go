package ledger

import (
	"context"
	"time"

	"github.com/iwvelando/gold-scheme/pkg/redemption"
)

// InvestmentType is how a scheme is funded.
type InvestmentType string

const (
	// Monthly schemes take any number of purchases.
	Monthly InvestmentType = "monthly"
	// Lumpsum schemes take exactly one purchase.
	Lumpsum InvestmentType = "lumpsum"
)

// Status is the lifecycle stage of a scheme.
type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusMatured  Status = "matured"
	StatusRedeemed Status = "redeemed"
	StatusClosed   Status = "closed"
)

// Active reports whether a scheme in this status still accepts changes.
func (s Status) Active() bool {
	return s == StatusOngoing || s == StatusMatured
}

// Transaction is a single gold purchase.
type Transaction struct {
	ID                 string    `json:"id"`
	Date               time.Time `json:"date"`
	InvestedAmount     float64   `json:"investedAmount"`
	GoldRate           float64   `json:"goldRate"`
	GoldPurchasedGrams float64   `json:"goldPurchasedGrams"`
}

// Redemption records how a scheme was converted into jewellery.
type Redemption struct {
	RedeemedAt time.Time         `json:"redeemedAt"`
	Date       time.Time         `json:"date"`
	Input      redemption.Input  `json:"input"`
	Result     redemption.Result `json:"result"`
}

// Scheme is one savings plan and its purchases.
type Scheme struct {
	ID                        string         `json:"id"`
	Name                      string         `json:"name"`
	InvestmentType            InvestmentType `json:"investmentType"`
	StartDate                 time.Time      `json:"startDate"`
	MaturityDate              time.Time      `json:"maturityDate"`
	Status                    Status         `json:"status"`
	TotalInvestedAmount       float64        `json:"totalInvestedAmount"`
	TotalAccumulatedGoldGrams float64        `json:"totalAccumulatedGoldGrams"`
	Transactions              []Transaction  `json:"transactions"`
	Redemption                *Redemption    `json:"redemption,omitempty"`
	CreatedAt                 time.Time      `json:"createdAt"`
	UpdatedAt                 time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy, so stores can hand out schemes without sharing
// the transaction slice or the redemption record.
func (s Scheme) Clone() Scheme {
	out := s
	if s.Transactions != nil {
		out.Transactions = make([]Transaction, len(s.Transactions))
		copy(out.Transactions, s.Transactions)
	}
	if s.Redemption != nil {
		r := *s.Redemption
		out.Redemption = &r
	}
	return out
}

// LastTransactionDate is the date of the latest purchase, or the zero time.
func (s Scheme) LastTransactionDate() time.Time {
	var last time.Time
	for _, tx := range s.Transactions {
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
	return last
}

// transactionIndex returns the position of id in s.Transactions, or -1.
func (s Scheme) transactionIndex(id string) int {
	for i, tx := range s.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// NewScheme holds the fields needed to open a scheme.
type NewScheme struct {
	Name           string         `json:"name" validate:"required"`
	InvestmentType InvestmentType `json:"investmentType" validate:"required,oneof=monthly lumpsum"`
	StartDate      time.Time      `json:"startDate" validate:"required"`
}

// NewTransaction holds the fields of a purchase to record or replace.
type NewTransaction struct {
	Date           time.Time `json:"date" validate:"required"`
	InvestedAmount float64   `json:"investedAmount" validate:"finite,gt=0"`
	GoldRate       float64   `json:"goldRate" validate:"finite,gt=0"`
}

// RedeemRequest describes the jewellery a scheme is redeemed into. Optional
// fields fall back to the ledger's defaults.
type RedeemRequest struct {
	Date                    time.Time `json:"date"`
	IntendedJewelleryWeight float64   `json:"intendedJewelleryWeight"`
	CurrentGoldPrice        float64   `json:"currentGoldPrice"`
	MakingChargePercentage  float64   `json:"makingChargePercentage"`
	// PrematureRedemption overrides the maturity check when set.
	PrematureRedemption    *bool    `json:"prematureRedemption,omitempty"`
	PrematureCapPercentage *float64 `json:"prematureCapPercentage,omitempty"`
}

// Store persists schemes. Implementations must return copies so callers can
// mutate results freely.
type Store interface {
	Save(ctx context.Context, scheme Scheme) error
	Get(ctx context.Context, id string) (Scheme, error)
	List(ctx context.Context) ([]Scheme, error)
}
