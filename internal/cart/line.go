package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Line is one entry of the cart. Quantity is always at least 1.
type Line struct {
	Item     Item
	Quantity int
}

// Total is the unit price times the quantity.
func (l Line) Total() decimal.Decimal {
	return l.Item.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) clone() Line {
	return Line{Item: l.Item.clone(), Quantity: l.Quantity}
}

type wireLine struct {
	Kind     enums.LineKind  `json:"kind"`
	Item     json.RawMessage `json:"item"`
	Quantity int             `json:"quantity"`
}

// legacyWireLine is the shape written by the browser-only storefront, which
// used "type" for the discriminator.
type legacyWireLine struct {
	Kind enums.LineKind `json:"type"`
}

func (l Line) MarshalJSON() ([]byte, error) {
	var payload any
	switch l.Item.Kind {
	case enums.LineKindProduct:
		payload = l.Item.Product
	case enums.LineKindBundle:
		payload = l.Item.Bundle
	default:
		return nil, fmt.Errorf("unknown line kind %q", l.Item.Kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireLine{Kind: l.Item.Kind, Item: raw, Quantity: l.Quantity})
}

func (l *Line) UnmarshalJSON(data []byte) error {
	var wire wireLine
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Kind == "" {
		var legacy legacyWireLine
		if err := json.Unmarshal(data, &legacy); err != nil {
			return err
		}
		wire.Kind = legacy.Kind
	}
	if len(bytes.TrimSpace(wire.Item)) == 0 || bytes.Equal(bytes.TrimSpace(wire.Item), []byte("null")) {
		return fmt.Errorf("line is missing its item")
	}
	if wire.Quantity < 1 {
		return fmt.Errorf("line quantity %d is below 1", wire.Quantity)
	}

	var item Item
	switch wire.Kind {
	case enums.LineKindProduct:
		var p catalog.Product
		if err := json.Unmarshal(wire.Item, &p); err != nil {
			return fmt.Errorf("decode product: %w", err)
		}
		item = Item{Kind: wire.Kind, Product: &p}
	case enums.LineKindBundle:
		var b catalog.Bundle
		if err := json.Unmarshal(wire.Item, &b); err != nil {
			return fmt.Errorf("decode bundle: %w", err)
		}
		item = Item{Kind: wire.Kind, Bundle: &b}
	default:
		return fmt.Errorf("unknown line kind %q", wire.Kind)
	}
	if err := item.Validate(); err != nil {
		return err
	}

	*l = Line{Item: item, Quantity: wire.Quantity}
	return nil
}
