package handlers

import (
	"net/http"

	"ecoulement_app_go/db"
	"ecoulement_app_go/services"

	"github.com/labstack/echo/v4"
)

// SearchHandler performs a full-text station search
// GET /api/search?q=xxx&limit=10
func SearchHandler(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, []services.SearchResult{})
	}

	searchService := services.NewSearchService(db.DB)
	results, err := searchService.Search(c.Request().Context(), query, parseLimit(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Search failed")
	}

	if isHTMX(c) {
		if len(results) == 0 {
			return c.HTML(http.StatusOK, `<div class="search-empty">Aucune station trouvée</div>`)
		}
		html := `<ul class="search-results">`
		for _, r := range results {
			// Snippet already escaped by the search service; labels are not
			html += `<li><a href="/station/` + services.SanitizeLabel(r.StationCode) + `">` +
				services.SanitizeLabel(r.StationName) + `</a> — ` +
				services.SanitizeLabel(r.CommuneName) + `</li>`
		}
		html += `</ul>`
		return c.HTML(http.StatusOK, html)
	}

	return c.JSON(http.StatusOK, results)
}
