package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmarquezf/bazaar-backend/api/responses"
	"github.com/dmarquezf/bazaar-backend/api/validators"
	productsvc "github.com/dmarquezf/bazaar-backend/internal/products"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

// ListProducts is the public catalog browse endpoint.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, meta, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WritePaged(w, products, meta)
	}
}

// GetProduct returns one active product, served through the cache.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseListInput(r *http.Request) (productsvc.ListInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return productsvc.ListInput{}, err
	}

	filters := productsvc.ListFilters{
		Category: validators.ParseQueryString(r, "category"),
		Tag:      validators.ParseQueryString(r, "tag"),
		Query:    validators.ParseQueryString(r, "q"),
	}

	if raw := validators.ParseQueryString(r, "vendor_id"); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			return productsvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "vendor_id must be a valid UUID")
		}
		filters.VendorID = &vendorID
	}

	if filters.PriceMinCents, err = validators.ParseQueryCents(r, "price_min_cents"); err != nil {
		return productsvc.ListInput{}, err
	}
	if filters.PriceMaxCents, err = validators.ParseQueryCents(r, "price_max_cents"); err != nil {
		return productsvc.ListInput{}, err
	}
	if filters.PriceMinCents != nil && filters.PriceMaxCents != nil && *filters.PriceMinCents > *filters.PriceMaxCents {
		return productsvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price_min_cents exceeds price_max_cents")
	}

	if filters.InStock, err = validators.ParseQueryBool(r, "in_stock"); err != nil {
		return productsvc.ListInput{}, err
	}

	return productsvc.ListInput{Filters: filters, Pagination: params}, nil
}
