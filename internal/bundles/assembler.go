package bundles

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/google/uuid"
)

const (
	DefaultDraftName = "My Custom Bundle"
	fallbackName     = "Custom Bundle"
	customIDPrefix   = "custom-"
)

// TooFewProductsMessage is reported when a selection is too small to become a bundle.
const TooFewProductsMessage = "add at least 2 products to create a bundle"

// IDGenerator produces identifiers for custom bundles.
type IDGenerator func() string

// TimeSaltedIDs returns a generator of ids shaped custom-<unix-millis>-<random>.
func TimeSaltedIDs(now func() time.Time) IDGenerator {
	if now == nil {
		now = time.Now
	}
	return func() string {
		salt := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		return fmt.Sprintf("%s%d-%s", customIDPrefix, now().UnixMilli(), salt)
	}
}

// Assembler turns selections into custom bundles.
type Assembler struct {
	newID IDGenerator
}

// NewAssembler builds an assembler; a nil generator falls back to TimeSaltedIDs.
func NewAssembler(ids IDGenerator) *Assembler {
	if ids == nil {
		ids = TimeSaltedIDs(nil)
	}
	return &Assembler{newID: ids}
}

// Build creates a custom bundle from sel. The selection is never modified.
func (a *Assembler) Build(sel *Selection, name string) (catalog.Bundle, error) {
	n := sel.Len()
	if n < MinProducts {
		return catalog.Bundle{}, pkgerrors.Validation(TooFewProductsMessage).WithDetails(map[string]any{
			"selected": n,
			"required": MinProducts,
		})
	}

	products := sel.Products()
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackName
	}

	return catalog.Bundle{
		ID:          a.newID(),
		Name:        name,
		Description: fmt.Sprintf("Custom bundle with %d products", n),
		Products:    products,
		Discount:    Tier(n),
		Tags:        unionTags(products),
		Image:       products[0].Image,
		Featured:    false,
		Type:        enums.BundleTypeCustom,
	}, nil
}

func unionTags(products []catalog.Product) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, p := range products {
		for _, tag := range p.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}
