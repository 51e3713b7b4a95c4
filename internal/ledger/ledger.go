// Package ledger keeps scheme and purchase records and redeems schemes
// through the redemption engine.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/iwvelando/gold-scheme/pkg/constants"
	"github.com/iwvelando/gold-scheme/pkg/datetime"
	"github.com/iwvelando/gold-scheme/pkg/redemption"
	"github.com/iwvelando/gold-scheme/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options tunes ledger behaviour. Zero values take the package defaults.
type Options struct {
	MaturityMonths int
	// DefaultPrematureCapPercentage applies when a redemption names no cap;
	// nil means constants.DefaultPrematureCapPercentage.
	DefaultPrematureCapPercentage *float64
	// Now supplies the current time; tests pin it.
	Now func() time.Time
}

// Ledger applies scheme operations against a Store. Writes are serialized so
// read-modify-write cycles on one scheme never interleave.
type Ledger struct {
	store      Store
	calculator *redemption.Calculator
	logger     *zap.Logger
	validate   *validator.Validate

	maturityMonths int
	defaultCap     float64
	now            func() time.Time

	mu sync.Mutex
}

// New builds a ledger. A nil logger discards output.
func New(logger *zap.Logger, store Store, calculator *redemption.Calculator, opts Options) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaturityMonths <= 0 {
		opts.MaturityMonths = constants.DefaultMaturityMonths
	}
	defaultCap := constants.DefaultPrematureCapPercentage
	if opts.DefaultPrematureCapPercentage != nil {
		defaultCap = *opts.DefaultPrematureCapPercentage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Ledger{
		store:          store,
		calculator:     calculator,
		logger:         logger,
		validate:       validation.NewStructValidator(),
		maturityMonths: opts.MaturityMonths,
		defaultCap:     defaultCap,
		now:            opts.Now,
	}
}

// CreateScheme opens a new ongoing scheme with no purchases.
func (l *Ledger) CreateScheme(ctx context.Context, req NewScheme) (Scheme, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := l.check(req, ErrInvalidScheme); err != nil {
		return Scheme{}, err
	}

	now := l.now().UTC()
	start := datetime.Truncate(req.StartDate)
	scheme := Scheme{
		ID:             uuid.NewString(),
		Name:           req.Name,
		InvestmentType: req.InvestmentType,
		StartDate:      start,
		MaturityDate:   datetime.AddMonths(start, l.maturityMonths),
		Status:         StatusOngoing,
		Transactions:   []Transaction{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Save(ctx, scheme); err != nil {
		return Scheme{}, fmt.Errorf("failed to save scheme %q: %w", scheme.Name, err)
	}

	l.logger.Info("scheme created",
		zap.String("op", "ledger.CreateScheme"),
		zap.String("scheme_id", scheme.ID),
		zap.String("investment_type", string(scheme.InvestmentType)),
	)
	return scheme, nil
}

// GetScheme returns one scheme by ID.
func (l *Ledger) GetScheme(ctx context.Context, id string) (Scheme, error) {
	scheme, err := l.store.Get(ctx, id)
	if err != nil {
		return Scheme{}, fmt.Errorf("failed to load scheme %s: %w", id, err)
	}
	return scheme, nil
}

// ListSchemes returns every scheme, oldest first.
func (l *Ledger) ListSchemes(ctx context.Context) ([]Scheme, error) {
	schemes, err := l.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemes: %w", err)
	}
	sort.SliceStable(schemes, func(i, j int) bool {
		if schemes[i].CreatedAt.Equal(schemes[j].CreatedAt) {
			return schemes[i].Name < schemes[j].Name
		}
		return schemes[i].CreatedAt.Before(schemes[j].CreatedAt)
	})
	return schemes, nil
}

// AddTransaction records a purchase and recomputes the scheme totals.
func (l *Ledger) AddTransaction(ctx context.Context, schemeID string, req NewTransaction) (Scheme, Transaction, error) {
	if err := l.check(req, ErrInvalidTransaction); err != nil {
		return Scheme{}, Transaction{}, err
	}

	var added Transaction
	scheme, err := l.update(ctx, schemeID, func(s *Scheme) error {
		if s.InvestmentType == Lumpsum && len(s.Transactions) > 0 {
			return ErrLumpsumTransaction
		}
		if err := checkAfterStart(*s, req.Date); err != nil {
			return err
		}
		added = newTransaction(uuid.NewString(), req)
		s.Transactions = insertByDate(s.Transactions, added)
		return nil
	})
	if err != nil {
		return Scheme{}, Transaction{}, fmt.Errorf("failed to add transaction to scheme %s: %w", schemeID, err)
	}

	l.logger.Debug("transaction added",
		zap.String("op", "ledger.AddTransaction"),
		zap.String("scheme_id", schemeID),
		zap.String("transaction_id", added.ID),
		zap.Float64("grams", added.GoldPurchasedGrams),
	)
	return scheme, added, nil
}

// EditTransaction replaces a purchase, recomputing its grams from the new
// amount and rate.
func (l *Ledger) EditTransaction(ctx context.Context, schemeID, txID string, req NewTransaction) (Scheme, error) {
	if err := l.check(req, ErrInvalidTransaction); err != nil {
		return Scheme{}, err
	}

	scheme, err := l.update(ctx, schemeID, func(s *Scheme) error {
		i := s.transactionIndex(txID)
		if i < 0 {
			return ErrTransactionNotFound
		}
		if err := checkAfterStart(*s, req.Date); err != nil {
			return err
		}
		rest := append(s.Transactions[:i:i], s.Transactions[i+1:]...)
		s.Transactions = insertByDate(rest, newTransaction(txID, req))
		return nil
	})
	if err != nil {
		return Scheme{}, fmt.Errorf("failed to edit transaction %s: %w", txID, err)
	}

	l.logger.Debug("transaction edited",
		zap.String("op", "ledger.EditTransaction"),
		zap.String("scheme_id", schemeID),
		zap.String("transaction_id", txID),
	)
	return scheme, nil
}

// RemoveTransaction deletes a purchase.
func (l *Ledger) RemoveTransaction(ctx context.Context, schemeID, txID string) (Scheme, error) {
	scheme, err := l.update(ctx, schemeID, func(s *Scheme) error {
		i := s.transactionIndex(txID)
		if i < 0 {
			return ErrTransactionNotFound
		}
		s.Transactions = append(s.Transactions[:i:i], s.Transactions[i+1:]...)
		return nil
	})
	if err != nil {
		return Scheme{}, fmt.Errorf("failed to remove transaction %s: %w", txID, err)
	}

	l.logger.Debug("transaction removed",
		zap.String("op", "ledger.RemoveTransaction"),
		zap.String("scheme_id", schemeID),
		zap.String("transaction_id", txID),
	)
	return scheme, nil
}

// Quote prices a redemption of the scheme without recording it.
func (l *Ledger) Quote(ctx context.Context, schemeID string, req RedeemRequest) (redemption.Result, error) {
	scheme, err := l.store.Get(ctx, schemeID)
	if err != nil {
		return redemption.Result{}, fmt.Errorf("failed to quote scheme %s: %w", schemeID, err)
	}
	if !scheme.Status.Active() {
		return redemption.Result{}, fmt.Errorf("failed to quote scheme %s: %w", schemeID, ErrSchemeClosed)
	}
	_, result, err := l.price(scheme, req)
	if err != nil {
		return redemption.Result{}, fmt.Errorf("failed to quote scheme %s: %w", schemeID, err)
	}
	return result, nil
}

// Redeem prices the scheme's accumulated gold into jewellery, stores the
// result and marks the scheme redeemed.
func (l *Ledger) Redeem(ctx context.Context, schemeID string, req RedeemRequest) (Scheme, error) {
	scheme, err := l.update(ctx, schemeID, func(s *Scheme) error {
		date, result, err := l.price(*s, req)
		if err != nil {
			return err
		}
		s.Redemption = &Redemption{
			RedeemedAt: l.now().UTC(),
			Date:       date,
			Input:      result.Input,
			Result:     result,
		}
		s.Status = StatusRedeemed
		return nil
	})
	if err != nil {
		return Scheme{}, fmt.Errorf("failed to redeem scheme %s: %w", schemeID, err)
	}

	l.logger.Info("scheme redeemed",
		zap.String("op", "ledger.Redeem"),
		zap.String("scheme_id", schemeID),
		zap.Bool("premature", scheme.Redemption.Input.PrematureRedemption),
		zap.Float64("final_amount_to_pay", scheme.Redemption.Result.FinalAmountToPay),
	)
	return scheme, nil
}

// CloseScheme ends a scheme without redemption.
func (l *Ledger) CloseScheme(ctx context.Context, schemeID string) (Scheme, error) {
	scheme, err := l.update(ctx, schemeID, func(s *Scheme) error {
		s.Status = StatusClosed
		return nil
	})
	if err != nil {
		return Scheme{}, fmt.Errorf("failed to close scheme %s: %w", schemeID, err)
	}

	l.logger.Info("scheme closed",
		zap.String("op", "ledger.CloseScheme"),
		zap.String("scheme_id", schemeID),
	)
	return scheme, nil
}

// Refresh moves ongoing schemes whose maturity date is on or before asOf to
// matured, returning how many changed.
func (l *Ledger) Refresh(ctx context.Context, asOf time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	schemes, err := l.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list schemes for refresh: %w", err)
	}

	day := datetime.Truncate(asOf)
	changed := 0
	for _, s := range schemes {
		if s.Status != StatusOngoing || s.MaturityDate.After(day) {
			continue
		}
		s.Status = StatusMatured
		s.UpdatedAt = l.now().UTC()
		if err := l.store.Save(ctx, s); err != nil {
			return changed, fmt.Errorf("failed to save matured scheme %s: %w", s.ID, err)
		}
		changed++
	}

	if changed > 0 {
		l.logger.Info("schemes matured",
			zap.String("op", "ledger.Refresh"),
			zap.Int("count", changed),
		)
	}
	return changed, nil
}

// update loads an active scheme, applies fn, recomputes totals and saves it.
func (l *Ledger) update(ctx context.Context, id string, fn func(*Scheme) error) (Scheme, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	scheme, err := l.store.Get(ctx, id)
	if err != nil {
		return Scheme{}, err
	}
	if !scheme.Status.Active() {
		return Scheme{}, fmt.Errorf("%w: scheme %s is %s", ErrSchemeClosed, id, scheme.Status)
	}
	if err := fn(&scheme); err != nil {
		return Scheme{}, err
	}

	recomputeTotals(&scheme)
	scheme.UpdatedAt = l.now().UTC()
	if err := l.store.Save(ctx, scheme); err != nil {
		return Scheme{}, err
	}
	return scheme, nil
}

// price resolves a redeem request against the scheme and runs the engine.
func (l *Ledger) price(s Scheme, req RedeemRequest) (time.Time, redemption.Result, error) {
	date := datetime.Truncate(req.Date)
	if req.Date.IsZero() {
		date = datetime.Truncate(l.now())
	}
	if last := s.LastTransactionDate(); !last.IsZero() && date.Before(last) {
		return time.Time{}, redemption.Result{}, fmt.Errorf("%w: redemption date %s precedes last purchase on %s",
			ErrInvalidRedemption, date.Format(datetime.DateLayout), last.Format(datetime.DateLayout))
	}

	premature := date.Before(s.MaturityDate)
	if req.PrematureRedemption != nil {
		premature = *req.PrematureRedemption
	}
	capPercentage := l.defaultCap
	if req.PrematureCapPercentage != nil {
		capPercentage = *req.PrematureCapPercentage
	}

	input := redemption.Input{
		AccumulatedGoldGrams:    s.TotalAccumulatedGoldGrams,
		IntendedJewelleryWeight: req.IntendedJewelleryWeight,
		CurrentGoldPrice:        req.CurrentGoldPrice,
		MakingChargePercentage:  req.MakingChargePercentage,
		PrematureRedemption:     premature,
		PrematureCapPercentage:  capPercentage,
	}
	result, err := l.calculator.Calculate(input)
	if err != nil {
		return time.Time{}, redemption.Result{}, fmt.Errorf("%w: %w", ErrInvalidRedemption, err)
	}
	return date, result, nil
}

func (l *Ledger) check(s interface{}, kind error) error {
	err := l.validate.Struct(s)
	if err == nil {
		return nil
	}
	if fe, ok := validation.FirstFieldError(err); ok {
		return fmt.Errorf("%w: %s", kind, validation.Describe(fe))
	}
	return fmt.Errorf("%w: %v", kind, err)
}

func checkAfterStart(s Scheme, date time.Time) error {
	if day := datetime.Truncate(date); day.Before(s.StartDate) {
		return fmt.Errorf("%w (%s < %s)", ErrTransactionBeforeStart,
			day.Format(datetime.DateLayout), s.StartDate.Format(datetime.DateLayout))
	}
	return nil
}

func newTransaction(id string, req NewTransaction) Transaction {
	amount := decimal.NewFromFloat(req.InvestedAmount)
	rate := decimal.NewFromFloat(req.GoldRate)
	return Transaction{
		ID:                 id,
		Date:               datetime.Truncate(req.Date),
		InvestedAmount:     req.InvestedAmount,
		GoldRate:           req.GoldRate,
		GoldPurchasedGrams: amount.Div(rate).InexactFloat64(),
	}
}

// insertByDate keeps purchases ordered by date, later entries after earlier
// ones on the same day.
func insertByDate(txs []Transaction, tx Transaction) []Transaction {
	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].Date.After(tx.Date)
	})
	txs = append(txs, Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	return txs
}

// recomputeTotals rebuilds the scheme totals from its purchases.
func recomputeTotals(s *Scheme) {
	invested, grams := decimal.Zero, decimal.Zero
	for _, tx := range s.Transactions {
		invested = invested.Add(decimal.NewFromFloat(tx.InvestedAmount))
		grams = grams.Add(decimal.NewFromFloat(tx.GoldPurchasedGrams))
	}
	s.TotalInvestedAmount = invested.InexactFloat64()
	s.TotalAccumulatedGoldGrams = grams.InexactFloat64()
}
