package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/brand-mentions/internal/services"
)

// SeedRequest is the JSON payload for seeding demo mentions.
type SeedRequest struct {
	BrandName string `json:"brand_name" example:"Tesla"`
	Count     int    `json:"count" example:"10"`
}

// SeedResponse reports how many rows were inserted.
type SeedResponse struct {
	Success   bool   `json:"success"`
	BrandName string `json:"brand_name"`
	Inserted  int    `json:"inserted"`
}

// SeedDemo godoc
// @ID          seedDemo
// @Summary     Insert sample mentions
// @Description Inserts sample mentions with random platforms, sentiments and timestamps within the last 24h.
// @Tags        Demo
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SeedRequest  false  "Brand (default Tesla) and count (default 10)"
// @Success     201  {object}  handlers.SeedResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /demo/seed [post]
func (h *Handlers) SeedDemo(c *gin.Context) {
	req := SeedRequest{BrandName: "Tesla", Count: 10}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	if req.BrandName == "" {
		req.BrandName = "Tesla"
	}
	if req.Count == 0 {
		req.Count = 10
	}
	brand, err := services.ValidateBrand(req.BrandName)
	if err != nil {
		failErr(c, err, ErrCodeSeedFailed)
		return
	}
	rows, err := h.demo.Seed(c.Request.Context(), brand, req.Count)
	if err != nil {
		failErr(c, err, ErrCodeSeedFailed)
		return
	}
	ok(c, http.StatusCreated, SeedResponse{Success: true, BrandName: brand, Inserted: len(rows)})
}
