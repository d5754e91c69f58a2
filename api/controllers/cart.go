package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/api/validators"
	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// CartProvider resolves the cart bound to a session.
type CartProvider interface {
	Get(ctx context.Context, session string) (*cart.Store, error)
}

// AddCartItemRequest adds a catalog product or catalog bundle by id.
type AddCartItemRequest struct {
	Kind   enums.LineKind `json:"kind" validate:"required,oneof=product bundle"`
	ItemID string         `json:"item_id" validate:"required,max=128"`
}

// UpdateCartItemRequest sets an absolute quantity. Values below 1 remove the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func sessionCart(r *http.Request, carts CartProvider) (string, *cart.Store, error) {
	if carts == nil {
		return "", nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
	}
	session := middleware.CartSessionFromContext(r.Context())
	store, err := carts.Get(r.Context(), session)
	if err != nil {
		return "", nil, err
	}
	return session, store, nil
}

func lineKindParam(r *http.Request) (enums.LineKind, error) {
	kind, err := enums.ParseLineKind(strings.ToLower(chi.URLParam(r, "kind")))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line kind").
			WithDetails(map[string]any{"field": "kind", "allowed": []enums.LineKind{enums.LineKindProduct, enums.LineKindBundle}})
	}
	return kind, nil
}

func CartGet(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartDTO(session, store.Snapshot()))
	}
}

// CartAddItem adds one unit of a catalog product or bundle, merging with an existing line.
func CartAddItem(carts CartProvider, cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		var body AddCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var item cart.Item
		switch body.Kind {
		case enums.LineKindProduct:
			p, err := cat.ProductByID(strings.TrimSpace(body.ItemID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			item = cart.ProductItem(p)
		case enums.LineKindBundle:
			b, err := cat.BundleByID(strings.TrimSpace(body.ItemID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			item = cart.BundleItem(b)
		}

		session, store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice, err := store.AddToCart(item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mutationDTO(session, store.Snapshot(), notice))
	}
}

func CartUpdateItem(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := lineKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body UpdateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notice, _ := store.UpdateQuantity(chi.URLParam(r, "itemId"), kind, *body.Quantity)
		responses.WriteSuccess(w, mutationDTO(session, store.Snapshot(), notice))
	}
}

func CartRemoveItem(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := lineKindParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notice, _ := store.RemoveFromCart(chi.URLParam(r, "itemId"), kind)
		responses.WriteSuccess(w, mutationDTO(session, store.Snapshot(), notice))
	}
}

func CartClear(carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice := store.ClearCart()
		responses.WriteSuccess(w, mutationDTO(session, store.Snapshot(), notice))
	}
}
