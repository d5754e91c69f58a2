package bundles

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

type productFinder interface {
	ProductByID(id string) (catalog.Product, error)
	ListProducts(filter catalog.ProductFilter) []catalog.Product
}

// Draft is a read-only view of a shopper's in-progress bundle.
type Draft struct {
	Name     string            `json:"name"`
	Products []catalog.Product `json:"products"`
	Quote    Quote             `json:"quote"`
}

type draft struct {
	name      string
	selection Selection
	touched   time.Time
}

// Builder keeps one draft bundle per shopper session.
type Builder struct {
	catalog   productFinder
	assembler *Assembler
	now       func() time.Time

	mu     sync.Mutex
	drafts map[string]*draft
}

// NewBuilder wires a builder over the catalog products.
func NewBuilder(products productFinder, assembler *Assembler) (*Builder, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if assembler == nil {
		return nil, fmt.Errorf("assembler required")
	}
	return &Builder{
		catalog:   products,
		assembler: assembler,
		now:       time.Now,
		drafts:    map[string]*draft{},
	}, nil
}

// View returns the session's draft, creating an empty one when absent.
func (b *Builder) View(session string) Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draftFor(session).view()
}

// Available lists catalog products matching filter that are not yet in the
// session's draft.
func (b *Builder) Available(session string, filter catalog.ProductFilter) []catalog.Product {
	matches := b.catalog.ListProducts(filter)

	b.mu.Lock()
	d := b.draftFor(session)
	var out []catalog.Product
	for _, p := range matches {
		if !d.selection.Contains(p.ID) {
			out = append(out, p)
		}
	}
	b.mu.Unlock()
	return out
}

// AddProduct adds a catalog product to the draft. Adding an already
// selected product leaves the draft unchanged.
func (b *Builder) AddProduct(session, productID string) (Draft, error) {
	p, err := b.catalog.ProductByID(strings.TrimSpace(productID))
	if err != nil {
		return Draft{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.draftFor(session)
	d.selection.Add(p)
	return d.view(), nil
}

// RemoveProduct drops a product from the draft. Unknown ids are a no-op.
func (b *Builder) RemoveProduct(session, productID string) Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.draftFor(session)
	d.selection.Remove(productID)
	return d.view()
}

// Rename sets the draft name shown in the builder.
func (b *Builder) Rename(session, name string) Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.draftFor(session)
	d.name = name
	return d.view()
}

// Commit builds a custom bundle from the draft and resets it.
// A nil name keeps the draft's current name. On error the draft is untouched.
func (b *Builder) Commit(session string, name *string) (catalog.Bundle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.draftFor(session)

	bundleName := d.name
	if name != nil {
		bundleName = *name
	}

	bundle, err := b.assembler.Build(&d.selection, bundleName)
	if err != nil {
		return catalog.Bundle{}, err
	}

	d.selection.Reset()
	d.name = DefaultDraftName
	return bundle, nil
}

// Sweep drops drafts untouched since before cutoff and reports how many were removed.
func (b *Builder) Sweep(cutoff time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for session, d := range b.drafts {
		if d.touched.Before(cutoff) {
			delete(b.drafts, session)
			removed++
		}
	}
	return removed
}

func (b *Builder) draftFor(session string) *draft {
	d, ok := b.drafts[session]
	if !ok {
		d = &draft{name: DefaultDraftName}
		b.drafts[session] = d
	}
	d.touched = b.now()
	return d
}

func (d *draft) view() Draft {
	return Draft{
		Name:     d.name,
		Products: d.selection.Products(),
		Quote:    QuoteFor(&d.selection),
	}
}

// IsTooFew reports whether err rejected a selection for being too small.
func IsTooFew(err error) bool {
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeValidation && typed.Message() == TooFewProductsMessage
}
