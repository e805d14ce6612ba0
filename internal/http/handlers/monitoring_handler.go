// Monitoring HTTP handlers.
//
// This file exposes session control under /monitoring:
//   - POST   /monitoring/start
//   - POST   /monitoring/stop
//   - GET    /monitoring/status
//   - POST   /monitoring/quota/reset
//   - GET    /monitoring/configs
//   - DELETE /monitoring/configs/{id}
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// StartMonitoringRequest is the JSON payload for starting a session.
type StartMonitoringRequest struct {
	// BrandName is 2-100 characters of letters, digits, spaces or - _ & .
	BrandName string `json:"brand_name" binding:"required" example:"Tesla"`
	// Platforms optionally overrides the configured platform list.
	Platforms []string `json:"platforms" example:"ChatGPT,Reddit"`
}

// StartMonitoring godoc
// @ID          startMonitoring
// @Summary     Start monitoring a brand
// @Description Stops any running session first, then ticks immediately and every interval.
// @Tags        Monitoring
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.StartMonitoringRequest  true  "Brand and optional platforms"
// @Success     200  {object}  handlers.APIResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /monitoring/start [post]
func (h *Handlers) StartMonitoring(c *gin.Context) {
	var req StartMonitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "brand_name required")
		return
	}
	brand, err := h.monitoring.Start(c.Request.Context(), req.BrandName, req.Platforms)
	if err != nil {
		failErr(c, err, ErrCodeMonitoringFailed)
		return
	}
	ok(c, http.StatusOK, APIResponse{Success: true, Message: "Started monitoring for " + brand})
}

// StopMonitoring godoc
// @ID          stopMonitoring
// @Summary     Stop monitoring
// @Tags        Monitoring
// @Produce     json
// @Success     200  {object}  handlers.APIResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /monitoring/stop [post]
func (h *Handlers) StopMonitoring(c *gin.Context) {
	if err := h.monitoring.Stop(c.Request.Context()); err != nil {
		failErr(c, err, ErrCodeMonitoringFailed)
		return
	}
	ok(c, http.StatusOK, APIResponse{Success: true, Message: "Monitoring stopped"})
}

// MonitoringStatus godoc
// @ID          monitoringStatus
// @Summary     Current session and quota usage
// @Tags        Monitoring
// @Produce     json
// @Success     200  {object}  services.MonitoringStatus
// @Router      /monitoring/status [get]
func (h *Handlers) MonitoringStatus(c *gin.Context) {
	ok(c, http.StatusOK, h.monitoring.Status(c.Request.Context()))
}

// ResetQuota godoc
// @ID          resetQuota
// @Summary     Reset the generation call budget
// @Tags        Monitoring
// @Produce     json
// @Success     200  {object}  services.QuotaStatus
// @Router      /monitoring/quota/reset [post]
func (h *Handlers) ResetQuota(c *gin.Context) {
	ok(c, http.StatusOK, h.monitoring.ResetQuota(c.Request.Context()))
}

// ListConfigs godoc
// @ID          listMonitoringConfigs
// @Summary     Active monitoring configs
// @Tags        Monitoring
// @Produce     json
// @Success     200  {array}   domain.MonitoringConfig
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /monitoring/configs [get]
func (h *Handlers) ListConfigs(c *gin.Context) {
	cfgs, err := h.monitoring.ActiveConfigs(c.Request.Context())
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	if cfgs == nil {
		cfgs = []domain.MonitoringConfig{}
	}
	ok(c, http.StatusOK, cfgs)
}

// DeactivateConfig godoc
// @ID          deactivateMonitoringConfig
// @Summary     Deactivate a monitoring config
// @Description Marks the stored config inactive; the running loop is not affected.
// @Tags        Monitoring
// @Param       id  path  int  true  "Config ID"
// @Success     204  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Config not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /monitoring/configs/{id} [delete]
func (h *Handlers) DeactivateConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "config id must be a positive integer")
		return
	}
	if err := h.monitoring.DeactivateConfig(c.Request.Context(), uint(id)); err != nil {
		failErr(c, err, ErrCodeMonitoringFailed)
		return
	}
	noContent(c)
}
