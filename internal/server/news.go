package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"voice-of-kalki/internal/ai"
	"voice-of-kalki/internal/filter"
	"voice-of-kalki/internal/model"
)

func (s *Server) getNews(c *gin.Context) {
	lang := model.Language(c.DefaultQuery("lang", string(model.LanguageEnglish)))
	region := model.Region(c.DefaultQuery("region", string(model.RegionCountry)))
	city := c.Query("city")
	if city == "" {
		city = s.defaultCity
	}
	genre := model.Genre(c.DefaultQuery("genre", string(model.GenreAll)))
	verifiedOnly := c.Query("verified") == "true"
	query := c.Query("q")

	ctx := c.Request.Context()

	items, cached := []model.NewsItem(nil), false
	if s.cache != nil {
		items, cached = s.cache.Get(ctx, lang, region, city, genre)
	}
	if !cached {
		var err error
		items, err = s.fetcher.FetchNews(ctx, lang, region, city, genre)
		if err != nil {
			if errors.Is(err, ai.ErrQuotaExhausted) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "quota_exhausted"})
				return
			}
			slog.Error("server: news fetch failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Fetch error"})
			return
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, lang, region, city, genre, items); err != nil {
				slog.Warn("server: feed cache write failed", "error", err)
			}
		}
		if s.articles != nil {
			for _, it := range items {
				if err := s.articles.InsertArticle(ctx, it); err != nil {
					slog.Warn("server: archiving article failed", "id", it.ID, "error", err)
					break
				}
			}
		}
	}

	// Genre scoping already happened at fetch time; only the view filters
	// apply here.
	items = filter.Apply(items, model.GenreAll, verifiedOnly, query)
	c.JSON(http.StatusOK, gin.H{
		"articles": items,
		"count":    len(items),
		"cached":   cached,
	})
}

func (s *Server) getArchive(c *gin.Context) {
	if s.articles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Archive not configured"})
		return
	}
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)
	items, err := s.articles.Articles(c.Request.Context(), c.Query("category"), c.Query("region"), limit, offset)
	if err != nil {
		slog.Error("server: reading archive failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"articles": items,
		"count":    len(items),
		"limit":    limit,
		"offset":   offset,
	})
}

func getQueryInt(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("server: invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}
	return v
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)
	limit := getQueryInt(c, "limit", defaultLimit)
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt(c, "offset", 0)
	if offset < 0 {
		return 0
	}
	return offset
}

func (s *Server) getCity(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}
	city := s.fetcher.CityFromCoords(c.Request.Context(), lat, lng)
	c.JSON(http.StatusOK, gin.H{"city": city})
}
