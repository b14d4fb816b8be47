package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"kudos/internal/infrastructure/filestore"
)

type HealthHandler struct {
	store *filestore.Store
}

var healthHandler *HealthHandler

func NewHealthHandler(store *filestore.Store) *HealthHandler {
	return &HealthHandler{
		store: store,
	}
}

func SetupHealthHandler(store *filestore.Store) {
	healthHandler = NewHealthHandler(store)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckStorageHealth(c echo.Context) error {
	if _, err := os.Stat(h.store.Root()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status": "Data directory is not accessible",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Data directory accessible",
	})
}
