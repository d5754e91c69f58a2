package cart

import "fmt"

// NoticeType identifies the kind of feedback a mutation produced.
type NoticeType string

const (
	NoticeItemAdded       NoticeType = "item_added"
	NoticeQuantityUpdated NoticeType = "quantity_updated"
	NoticeItemRemoved     NoticeType = "item_removed"
	NoticeCartCleared     NoticeType = "cart_cleared"
)

// Notice is user-facing feedback for a cart mutation.
type Notice struct {
	Type        NoticeType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// IsZero reports whether the mutation produced no feedback.
func (n Notice) IsZero() bool {
	return n.Type == ""
}

func itemAdded(name string) Notice {
	return Notice{
		Type:        NoticeItemAdded,
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s added to your cart", name),
	}
}

func quantityUpdated(name string, quantity int) Notice {
	return Notice{
		Type:        NoticeQuantityUpdated,
		Title:       "Quantity updated",
		Description: fmt.Sprintf("%s quantity increased to %d", name, quantity),
	}
}

func itemRemoved() Notice {
	return Notice{
		Type:        NoticeItemRemoved,
		Title:       "Item removed",
		Description: "Item removed from your cart",
	}
}

func cartCleared() Notice {
	return Notice{
		Type:        NoticeCartCleared,
		Title:       "Cart cleared",
		Description: "All items have been removed from your cart",
	}
}
