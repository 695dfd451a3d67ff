package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobscout/internal/providers"
	"jobscout/pkg/models"
)

// ProvidersHandler reports the configuration status of every known provider
func ProvidersHandler(registry *providers.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		all := registry.All()

		statuses := make([]models.ProviderConfigStatus, 0, len(all))
		available := 0
		for _, p := range all {
			configured := p.Configured()
			if configured {
				available++
			}
			statuses = append(statuses, models.ProviderConfigStatus{
				Name:       p.Name(),
				Configured: configured,
			})
		}

		return c.JSON(http.StatusOK, models.ProvidersResponse{
			Providers: statuses,
			Total:     len(all),
			Available: available,
		})
	}
}
