package handlers

import (
	"encoding/xml"
	"net/http"
	"time"

	"ecoulement_app_go/config"
	"ecoulement_app_go/db"
	"ecoulement_app_go/models"

	"github.com/labstack/echo/v4"
)

type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float32 `xml:"priority,omitempty"`
}

type SitemapURLSet struct {
	XMLName string       `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// GetSitemapHandler generates a dynamic XML sitemap
func GetSitemapHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)
	baseURL := cfg.AppURL

	// Static pages
	urls := []SitemapURL{
		{Loc: baseURL + "/", ChangeFreq: "monthly", Priority: 1.0},
		{Loc: baseURL + "/stations", ChangeFreq: "weekly", Priority: 0.9},
		{Loc: baseURL + "/graphique", ChangeFreq: "daily", Priority: 0.8},
	}

	// Dynamic pages: regions and départements
	var regions []models.Region
	if err := db.DB.Order("code").Find(&regions).Error; err != nil {
		c.Logger().Error("Failed to fetch regions for sitemap", err)
		// Continue with static pages if DB fails
	}
	for _, region := range regions {
		urls = append(urls, SitemapURL{
			Loc:        baseURL + "/region/" + region.Code,
			ChangeFreq: "monthly",
			Priority:   0.7,
			LastMod:    region.UpdatedAt.Format(time.RFC3339),
		})
	}

	var departements []models.Departement
	if err := db.DB.Order("code").Find(&departements).Error; err != nil {
		c.Logger().Error("Failed to fetch departements for sitemap", err)
	}
	for _, departement := range departements {
		urls = append(urls, SitemapURL{
			Loc:        baseURL + "/departement/" + departement.Code,
			ChangeFreq: "monthly",
			Priority:   0.6,
			LastMod:    departement.UpdatedAt.Format(time.RFC3339),
		})
	}

	urlSet := SitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	out, err := xml.MarshalIndent(urlSet, "", "  ")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build sitemap")
	}

	return c.Blob(http.StatusOK, "application/xml", append([]byte(xml.Header), out...))
}
