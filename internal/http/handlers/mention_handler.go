// Mention HTTP handlers.
//
// This file exposes REST endpoints for stored mentions:
//   - GET    /mentions                     (list, optional brand filter, ETag)
//   - GET    /mentions/{brand_name}        (list for one brand)
//   - GET    /mentions/platform/{platform} (list for one platform)
//   - GET    /mentions/search              (substring search)
//   - DELETE /mentions/{id}                (delete one)
//   - DELETE /mentions                     (clear all, archived first when configured)
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/services"
	"github.com/tbourn/brand-mentions/internal/utils"
)

// queryLimit reads ?limit, defaulting to services.DefaultLimit. Range
// checking happens in the service; a non-numeric value is answered with 400
// here and reported as !ok.
func queryLimit(c *gin.Context) (int, bool) {
	n, err := utils.AtoiDefault(c.Query("limit"), services.DefaultLimit)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit "+err.Error())
		return 0, false
	}
	return n, true
}

// writeMentions answers a list endpoint, mapping validation errors to 400.
func writeMentions(c *gin.Context, rows []domain.BrandMention, err error) {
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	if rows == nil {
		rows = []domain.BrandMention{}
	}
	ok(c, http.StatusOK, rows)
}

// ListMentions godoc
// @ID          listMentions
// @Summary     List recent mentions
// @Description Returns mentions newest-first. Supports conditional GET via ETag.
// @Tags        Mentions
// @Produce     json
// @Param       limit       query  int     false "Max rows"  minimum(1) maximum(100) default(50)
// @Param       brand_name  query  string  false "Brand filter"
// @Success     200  {array}   domain.BrandMention
// @Success     304  "Not modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /mentions [get]
func (h *Handlers) ListMentions(c *gin.Context) {
	ctx := c.Request.Context()
	brand := strings.TrimSpace(c.Query("brand_name"))
	limit, valid := queryLimit(c)
	if !valid {
		return
	}

	// ETag pre-check (best effort).
	if v, err := h.mentions.Fingerprint(ctx, brand); err == nil {
		var ts int64
		if v.Latest != nil {
			ts = v.Latest.UnixNano()
		}
		etag := utils.WeakETag("mentions", brand, limit, v.Count, v.MaxID, ts)
		c.Header("ETag", etag)
		if utils.ETagMatch(c.GetHeader("If-None-Match"), etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	rows, err := h.mentions.List(ctx, brand, limit)
	writeMentions(c, rows, err)
}

// ListBrandMentions godoc
// @ID          listBrandMentions
// @Summary     List mentions for a brand
// @Tags        Mentions
// @Produce     json
// @Param       brand_name  path   string  true  "Brand name"
// @Param       limit       query  int     false "Max rows"  minimum(1) maximum(100) default(50)
// @Success     200  {array}   domain.BrandMention
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /mentions/{brand_name} [get]
func (h *Handlers) ListBrandMentions(c *gin.Context) {
	limit, valid := queryLimit(c)
	if !valid {
		return
	}
	rows, err := h.mentions.List(c.Request.Context(), c.Param("brand_name"), limit)
	writeMentions(c, rows, err)
}

// ListPlatformMentions godoc
// @ID          listPlatformMentions
// @Summary     List mentions for a platform
// @Tags        Mentions
// @Produce     json
// @Param       platform  path   string  true  "Platform label"  example(Reddit)
// @Param       limit     query  int     false "Max rows"  minimum(1) maximum(100) default(50)
// @Success     200  {array}   domain.BrandMention
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /mentions/platform/{platform} [get]
func (h *Handlers) ListPlatformMentions(c *gin.Context) {
	limit, valid := queryLimit(c)
	if !valid {
		return
	}
	rows, err := h.mentions.ListByPlatform(c.Request.Context(), c.Param("platform"), limit)
	writeMentions(c, rows, err)
}

// SearchMentions godoc
// @ID          searchMentions
// @Summary     Search mention text
// @Tags        Mentions
// @Produce     json
// @Param       q           query  string  true  "Substring (min 2 chars)"  minlength(2)
// @Param       brand_name  query  string  false "Brand filter"
// @Param       limit       query  int     false "Max rows"  minimum(1) maximum(100) default(50)
// @Success     200  {array}   domain.BrandMention
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /mentions/search [get]
func (h *Handlers) SearchMentions(c *gin.Context) {
	limit, valid := queryLimit(c)
	if !valid {
		return
	}
	rows, err := h.mentions.Search(c.Request.Context(), c.Query("q"), c.Query("brand_name"), limit)
	writeMentions(c, rows, err)
}

// DeleteMention godoc
// @ID          deleteMention
// @Summary     Delete a mention
// @Tags        Mentions
// @Produce     json
// @Param       id  path  int  true  "Mention ID"
// @Success     200  {object}  handlers.APIResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Mention not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /mentions/{id} [delete]
func (h *Handlers) DeleteMention(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mention id must be a positive integer")
		return
	}
	if err := h.mentions.Delete(c.Request.Context(), uint(id)); err != nil {
		failErr(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, APIResponse{Success: true, Message: "Mention deleted successfully"})
}

// ClearMentions godoc
// @ID          clearMentions
// @Summary     Delete every mention
// @Description Archives a snapshot first when blob archiving is configured.
// @Tags        Mentions
// @Produce     json
// @Success     200  {object}  services.ClearResult
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /mentions [delete]
func (h *Handlers) ClearMentions(c *gin.Context) {
	res, err := h.mentions.Clear(c.Request.Context())
	if err != nil {
		failErr(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, res)
}
