package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	formcheck "github.com/angelmondragon/bazaar-backend/pkg/checkout"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat sales tax applied at checkout.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// cartProvider resolves a session's cart.
type cartProvider interface {
	Get(ctx context.Context, session string) (*cart.Store, error)
}

// SummaryLine is one cart line as shown on the order summary.
type SummaryLine struct {
	Kind      enums.LineKind  `json:"kind"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is the priced order before submission.
type Summary struct {
	Lines    []SummaryLine   `json:"lines"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Confirmation is returned for a placed order.
type Confirmation struct {
	OrderNumber string    `json:"order_number"`
	Email       string    `json:"email"`
	MaskedCard  string    `json:"masked_card"`
	Summary     Summary   `json:"summary"`
	PlacedAt    time.Time `json:"placed_at"`
}

// Service prices carts and places orders. No payment is taken.
type Service interface {
	Summary(ctx context.Context, session string) (Summary, error)
	Submit(ctx context.Context, session string, form formcheck.Form) (*Confirmation, error)
}

type service struct {
	carts   cartProvider
	taxRate decimal.Decimal
	logg    *logger.Logger
	now     func() time.Time
	orderID func() string
}

// NewService builds the checkout service. taxRate is applied as given; zero
// means no tax.
func NewService(carts cartProvider, taxRate decimal.Decimal, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate %s out of range", taxRate)
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		carts:   carts,
		taxRate: taxRate,
		logg:    logg,
		now:     time.Now,
		orderID: newOrderNumber,
	}, nil
}

func (s *service) Summary(ctx context.Context, session string) (Summary, error) {
	store, err := s.carts.Get(ctx, session)
	if err != nil {
		return Summary{}, err
	}
	return s.summarize(store.Snapshot()), nil
}

func (s *service) Submit(ctx context.Context, session string, form formcheck.Form) (*Confirmation, error) {
	store, err := s.carts.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	var confirmation *Confirmation
	err = store.Settle(func(snap cart.Snapshot) error {
		if len(snap.Lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}
		now := s.now()
		if err := formcheck.ValidateForm(form, now); err != nil {
			return err
		}
		form = form.Normalize()
		confirmation = &Confirmation{
			OrderNumber: s.orderID(),
			Email:       form.Email,
			MaskedCard:  form.MaskedCard(),
			Summary:     s.summarize(snap),
			PlacedAt:    now.UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_number": confirmation.OrderNumber,
		"line_count":   len(confirmation.Summary.Lines),
		"order_total":  confirmation.Summary.Total.StringFixed(2),
	})
	s.logg.Info(ctx, "order placed")
	return confirmation, nil
}

func (s *service) summarize(snap cart.Snapshot) Summary {
	lines := make([]SummaryLine, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		lines = append(lines, SummaryLine{
			Kind:      l.Item.Kind,
			ID:        l.Item.ID(),
			Name:      l.Item.Name(),
			Quantity:  l.Quantity,
			UnitPrice: catalog.RoundCents(l.Item.UnitPrice()),
			LineTotal: catalog.RoundCents(l.Total()),
		})
	}
	return Totals(snap.Total, s.taxRate, lines, snap.Count)
}

// Totals applies taxRate to subtotal and rounds every amount to cents.
func Totals(subtotal, taxRate decimal.Decimal, lines []SummaryLine, count int) Summary {
	tax := subtotal.Mul(taxRate)
	return Summary{
		Lines:    lines,
		Count:    count,
		Subtotal: catalog.RoundCents(subtotal),
		TaxRate:  taxRate,
		Tax:      catalog.RoundCents(tax),
		Total:    catalog.RoundCents(subtotal.Add(tax)),
	}
}

func newOrderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:8])
}
