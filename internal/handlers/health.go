package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-recipes/httpx"
	"github.com/diewo77/go-recipes/internal/db"
)

type HealthHandler struct{ db *gorm.DB }

func NewHealthHandler(db *gorm.DB) *HealthHandler { return &HealthHandler{db: db} }

//revive:disable:unused-parameter
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

//revive:enable:unused-parameter

// Healthz also checks the database with SELECT 1.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(r.Context(), h.db); err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
