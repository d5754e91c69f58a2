package cart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func TestEncodeStateWireShape(t *testing.T) {
	raw, err := EncodeState(State{Lines: []Line{{Item: ProductItem(testProduct("p1", "14.99")), Quantity: 2}}})
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}

	var wire []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(wire) != 1 {
		t.Fatalf("expected 1 line, got %d", len(wire))
	}
	if string(wire[0]["kind"]) != `"product"` || string(wire[0]["quantity"]) != "2" {
		t.Fatalf("unexpected wire line %s", raw)
	}
	if !strings.Contains(string(wire[0]["item"]), `"price":"14.99"`) {
		t.Fatalf("expected decimal price string in %s", wire[0]["item"])
	}
}

func TestEncodeEmptyState(t *testing.T) {
	raw, err := EncodeState(State{})
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

func TestDecodeStateAcceptsLegacyAndNumericPrices(t *testing.T) {
	raw := `[
		{"type":"product","quantity":2,"item":{"id":"p1","name":"Mug","price":14.99,"category":"Kitchen","stock":5}},
		{"kind":"bundle","quantity":1,"item":{"id":"b1","name":"Set","discount":10,"type":"themed",
			"products":[{"id":"a","name":"A","price":"10","category":"X"},{"id":"b","name":"B","price":20,"category":"X"}]}}
	]`
	state, err := DecodeState([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if state.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", state.Len())
	}
	first := state.Lines[0]
	if first.Item.Kind != enums.LineKindProduct || !first.Item.Product.Price.Equal(decimal.RequireFromString("14.99")) {
		t.Fatalf("unexpected legacy product line %+v", first.Item.Product)
	}
	second := state.Lines[1]
	if second.Item.Kind != enums.LineKindBundle || !second.Total().Equal(decimal.NewFromInt(27)) {
		t.Fatalf("unexpected bundle line total %s", second.Total())
	}
}

func TestDecodeStateEmptyPayloads(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		state, err := DecodeState([]byte(raw))
		if err != nil {
			t.Fatalf("DecodeState(%q): %v", raw, err)
		}
		if state.Len() != 0 {
			t.Fatalf("DecodeState(%q) expected empty state", raw)
		}
	}
}

func TestDecodeStateRejectsCorruptPayloads(t *testing.T) {
	product := `{"id":"p1","name":"Mug","price":"1","category":"K"}`
	cases := map[string]string{
		"not json":        `{{`,
		"object":          `{"kind":"product"}`,
		"missing item":    `[{"kind":"product","quantity":1}]`,
		"null item":       `[{"kind":"product","quantity":1,"item":null}]`,
		"zero quantity":   `[{"kind":"product","quantity":0,"item":` + product + `}]`,
		"unknown kind":    `[{"kind":"voucher","quantity":1,"item":` + product + `}]`,
		"negative price":  `[{"kind":"product","quantity":1,"item":{"id":"p1","price":"-1"}}]`,
		"empty bundle":    `[{"kind":"bundle","quantity":1,"item":{"id":"b1","discount":5,"products":[]}}]`,
		"duplicate lines": `[{"kind":"product","quantity":1,"item":` + product + `},{"kind":"product","quantity":2,"item":` + product + `}]`,
	}
	for name, raw := range cases {
		if _, err := DecodeState([]byte(raw)); !errors.Is(err, ErrCorruptState) {
			t.Fatalf("%s: expected ErrCorruptState, got %v", name, err)
		}
	}
}
