// Stats HTTP handlers.
//
// This file exposes the dashboard aggregates under /stats.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/brand-mentions/internal/search"
	"github.com/tbourn/brand-mentions/internal/utils"
)

// PlatformsResponse lists the configured platforms.
type PlatformsResponse struct {
	Platforms []string `json:"platforms"`
	Count     int      `json:"count"`
}

// KeywordsResponse lists the most frequent words.
type KeywordsResponse struct {
	Keywords []search.Keyword `json:"keywords"`
	Brand    *string          `json:"brand_name"`
}

func brandQuery(c *gin.Context) string { return strings.TrimSpace(c.Query("brand_name")) }

// GetStats godoc
// @ID          getStats
// @Summary     Overview statistics
// @Tags        Stats
// @Produce     json
// @Param       brand_name  query  string  false "Brand filter"
// @Success     200  {object}  services.Overview
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	out, err := h.stats.Overview(c.Request.Context(), brandQuery(c))
	if err != nil {
		failErr(c, err, ErrCodeStatsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetPlatforms godoc
// @ID          getPlatforms
// @Summary     Configured platforms
// @Tags        Stats
// @Produce     json
// @Success     200  {object}  handlers.PlatformsResponse
// @Router      /stats/platforms [get]
func (h *Handlers) GetPlatforms(c *gin.Context) {
	p := h.stats.PlatformList()
	if p == nil {
		p = []string{}
	}
	ok(c, http.StatusOK, PlatformsResponse{Platforms: p, Count: len(p)})
}

// GetPlatformBreakdown godoc
// @ID          getPlatformBreakdown
// @Summary     Mentions per platform
// @Tags        Stats
// @Produce     json
// @Param       brand_name  query  string  false "Brand filter"
// @Success     200  {object}  services.PlatformBreakdown
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /stats/platforms/breakdown [get]
func (h *Handlers) GetPlatformBreakdown(c *gin.Context) {
	out, err := h.stats.PlatformBreakdown(c.Request.Context(), brandQuery(c))
	if err != nil {
		failErr(c, err, ErrCodeStatsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetSentiment godoc
// @ID          getSentiment
// @Summary     Mentions per sentiment label
// @Tags        Stats
// @Produce     json
// @Param       brand_name  query  string  false "Brand filter"
// @Success     200  {object}  services.SentimentBreakdown
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /stats/sentiment [get]
func (h *Handlers) GetSentiment(c *gin.Context) {
	out, err := h.stats.SentimentBreakdown(c.Request.Context(), brandQuery(c))
	if err != nil {
		failErr(c, err, ErrCodeStatsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetTimeframe godoc
// @ID          getTimeframe
// @Summary     Hourly histogram over a lookback window
// @Tags        Stats
// @Produce     json
// @Param       hours       query  int     false "Window in hours"  minimum(1) maximum(168) default(24)
// @Param       brand_name  query  string  false "Brand filter"
// @Success     200  {object}  services.Timeframe
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /stats/timeframe [get]
func (h *Handlers) GetTimeframe(c *gin.Context) {
	hours, err := utils.AtoiDefault(c.Query("hours"), 24)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "hours "+err.Error())
		return
	}
	out, err := h.stats.Timeframe(c.Request.Context(), hours, brandQuery(c))
	if err != nil {
		failErr(c, err, ErrCodeStatsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// GetKeywords godoc
// @ID          getKeywords
// @Summary     Most frequent words in recent mentions
// @Tags        Stats
// @Produce     json
// @Param       brand_name  query  string  false "Brand filter"
// @Param       limit       query  int     false "Number of keywords"  minimum(1) maximum(50) default(10)
// @Success     200  {object}  handlers.KeywordsResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /stats/keywords [get]
func (h *Handlers) GetKeywords(c *gin.Context) {
	n, err := utils.AtoiDefault(c.Query("limit"), 10)
	if err != nil || n < 1 || n > 50 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be between 1 and 50")
		return
	}
	brand := brandQuery(c)
	kw, err := h.stats.Keywords(c.Request.Context(), brand, n)
	if err != nil {
		failErr(c, err, ErrCodeStatsFailed)
		return
	}
	resp := KeywordsResponse{Keywords: kw}
	if brand != "" {
		resp.Brand = &brand
	}
	ok(c, http.StatusOK, resp)
}
