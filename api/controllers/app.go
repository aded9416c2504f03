package controllers

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/dmarquezf/bazaar-backend/api/responses"
	"github.com/dmarquezf/bazaar-backend/pkg/config"
	"github.com/dmarquezf/bazaar-backend/pkg/db/models"
	pkgerrors "github.com/dmarquezf/bazaar-backend/pkg/errors"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type statsDB interface {
	DB() *gorm.DB
}

// Status reports connectivity to the database and Redis.
func Status(cfg *config.Config, database pinger, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazaar-Env", cfg.App.Env)

		components := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}
		healthy := true

		if database == nil || database.Ping(r.Context()) != nil {
			components["database"] = "unavailable"
			healthy = false
		}
		if cache == nil || cache.Ping(r.Context()) != nil {
			components["redis"] = "unavailable"
			healthy = false
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "backing services unavailable").WithDetails(components))
			return
		}
		responses.WriteSuccess(w, components)
	}
}

// Stats reports row counts for the main collections.
func Stats(database statsDB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if database == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}

		collections := []struct {
			name  string
			model any
		}{
			{"users", &models.User{}},
			{"vendors", &models.Vendor{}},
			{"products", &models.Product{}},
			{"cart_items", &models.CartItem{}},
			{"orders", &models.Order{}},
			{"deliveries", &models.Delivery{}},
		}

		counts := make(map[string]int64, len(collections))
		for _, collection := range collections {
			var count int64
			if err := database.DB().WithContext(r.Context()).Model(collection.model).Count(&count).Error; err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count "+collection.name))
				return
			}
			counts[collection.name] = count
		}

		responses.WriteSuccess(w, counts)
	}
}
