package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bazaar-backend/api/responses"
	"github.com/angelmondragon/bazaar-backend/api/validators"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

const (
	maxQueryLen = 100
	maxTagCount = 20
)

// CatalogProducts lists products filtered by q, category and tags and ordered by sort.
func CatalogProducts(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		query := r.URL.Query()
		sort, err := enums.ParseProductSort(query.Get("sort"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").
				WithDetails(map[string]any{"field": "sort", "allowed": enums.ProductSorts()}))
			return
		}
		tags, err := validators.ParseQueryList(r, "tags", maxTagCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := cat.ListProducts(catalog.ProductFilter{
			Query:    validators.SanitizeString(query.Get("q"), maxQueryLen),
			Category: validators.SanitizeString(query.Get("category"), maxQueryLen),
			Tags:     tags,
			Sort:     sort,
		})
		responses.WriteSuccess(w, products)
	}
}

func CatalogProduct(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		product, err := cat.ProductByID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CatalogBundles lists bundles with their pricing.
func CatalogBundles(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		featured, err := validators.ParseQueryBool(r, "featured", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tags, err := validators.ParseQueryList(r, "tags", maxTagCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bundles := cat.ListBundles(catalog.BundleFilter{
			Query:        validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen),
			Tags:         tags,
			FeaturedOnly: featured,
		})
		responses.WriteSuccess(w, bundleDTOs(bundles))
	}
}

func CatalogBundle(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		bundle, err := cat.BundleByID(chi.URLParam(r, "bundleId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bundleDTO(bundle))
	}
}

func CatalogFacets(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, FacetsDTO{
			Categories: cat.Categories(),
			Tags:       cat.Tags(),
			Sorts:      enums.ProductSorts(),
		})
	}
}
