package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/api/validators"
	"github.com/angelmondragon/bazaar-backend/internal/bundles"
	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// BuilderProductRequest selects a catalog product for the draft bundle.
type BuilderProductRequest struct {
	ProductID string `json:"product_id" validate:"required,max=128"`
}

// RenameDraftRequest renames the draft bundle.
type RenameDraftRequest struct {
	Name string `json:"name" validate:"max=100"`
}

// CommitBundleRequest optionally overrides the draft name on commit.
type CommitBundleRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// BuilderViewDTO is the draft together with the products still available to add.
type BuilderViewDTO struct {
	bundles.Draft
	Available []catalog.Product `json:"available"`
}

// CommitBundleDTO is the committed bundle and the cart it was added to.
type CommitBundleDTO struct {
	Bundle BundleDTO       `json:"bundle"`
	Cart   CartMutationDTO `json:"cart"`
}

func builderView(b *bundles.Builder, session string, draft bundles.Draft, filter catalog.ProductFilter) BuilderViewDTO {
	available := b.Available(session, filter)
	if available == nil {
		available = []catalog.Product{}
	}
	return BuilderViewDTO{Draft: draft, Available: available}
}

func BundleBuilderView(b *bundles.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle builder unavailable"))
			return
		}
		query := r.URL.Query()
		filter := catalog.ProductFilter{
			Query:    validators.SanitizeString(query.Get("q"), maxQueryLen),
			Category: validators.SanitizeString(query.Get("category"), maxQueryLen),
		}
		session := middleware.CartSessionFromContext(r.Context())
		responses.WriteSuccess(w, builderView(b, session, b.View(session), filter))
	}
}

func BundleBuilderAddProduct(b *bundles.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle builder unavailable"))
			return
		}
		var body BuilderProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session := middleware.CartSessionFromContext(r.Context())
		draft, err := b.AddProduct(session, body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, builderView(b, session, draft, catalog.ProductFilter{}))
	}
}

func BundleBuilderRemoveProduct(b *bundles.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle builder unavailable"))
			return
		}
		session := middleware.CartSessionFromContext(r.Context())
		draft := b.RemoveProduct(session, chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, builderView(b, session, draft, catalog.ProductFilter{}))
	}
}

func BundleBuilderRename(b *bundles.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle builder unavailable"))
			return
		}
		var body RenameDraftRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session := middleware.CartSessionFromContext(r.Context())
		responses.WriteSuccess(w, builderView(b, session, b.Rename(session, body.Name), catalog.ProductFilter{}))
	}
}

// BundleBuilderCommit turns the draft into a custom bundle and adds it to the cart.
// Drafts with fewer than two products are rejected and left as they are.
func BundleBuilderCommit(b *bundles.Builder, carts CartProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bundle builder unavailable"))
			return
		}
		var body CommitBundleRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		session, store, err := sessionCart(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bundle, err := b.Commit(session, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice, err := store.AddToCart(cart.BundleItem(bundle))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"bundle_id":     bundle.ID,
				"product_count": len(bundle.Products),
				"discount":      bundle.Discount,
			})
			logg.Info(ctx, "custom bundle created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, CommitBundleDTO{
			Bundle: bundleDTO(bundle),
			Cart:   mutationDTO(session, store.Snapshot(), notice),
		})
	}
}
