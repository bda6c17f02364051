package services

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// SearchResult represents a station search result
type SearchResult struct {
	StationID   string  `json:"station_id"`
	StationCode string  `json:"station_code"`
	StationName string  `json:"station_name"`
	CommuneName string  `json:"commune_name"`
	State       string  `json:"state"`
	Snippet     string  `json:"snippet"`
	Rank        float64 `json:"rank"`
}

// SearchService handles FTS5 searches over the station index
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a new search service instance
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search performs a bm25-ranked FTS5 search over station code, station name
// and commune name
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	searchQuery := sanitizeFTSQuery(query)
	if searchQuery == "" {
		return []SearchResult{}, nil
	}

	sql := `
		SELECT
			m.station_id,
			s.code as station_code,
			COALESCE(s.name, '') as station_name,
			COALESCE(c.name, '') as commune_name,
			COALESCE(s.state, '') as state,
			snippet(stations_fts, -1, '<mark>', '</mark>', '...', 32) as snippet,
			bm25(stations_fts) as rank
		FROM stations_fts
		INNER JOIN stations_fts_mapping m ON stations_fts.rowid = m.rowid
		INNER JOIN stations s ON m.station_id = s.id
		LEFT JOIN communes c ON s.commune_id = c.id
		WHERE stations_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	var results []SearchResult
	err := s.db.WithContext(ctx).Raw(sql, searchQuery, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	for i := range results {
		results[i].Snippet = processSnippet(results[i].Snippet)
	}

	return results, nil
}

// sanitizeFTSQuery removes FTS5 operators and turns each word into a prefix
// match joined with OR
func sanitizeFTSQuery(query string) string {
	// Remove FTS5 special characters
	specialChars := regexp.MustCompile(`[*"():\-+^]`)
	cleaned := specialChars.ReplaceAllString(query, " ")

	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return ""
	}

	var parts []string
	for _, word := range words {
		word = strings.TrimSpace(word)
		if len(word) >= 2 { // Minimum 2 characters
			parts = append(parts, word+"*")
		}
	}

	if len(parts) == 0 {
		return ""
	}

	// Use OR for multiple words to match any
	return strings.Join(parts, " OR ")
}

// processSnippet escapes HTML but preserves mark tags
func processSnippet(snippet string) string {
	// First escape everything
	escaped := html.EscapeString(snippet)

	// Then restore mark tags
	escaped = strings.ReplaceAll(escaped, "&lt;mark&gt;", "<mark>")
	escaped = strings.ReplaceAll(escaped, "&lt;/mark&gt;", "</mark>")

	return escaped
}
