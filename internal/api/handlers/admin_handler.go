package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/pkg/response"
)

type AdminHandler struct {
	h     *Handlers
	svc   *application.ApprovalService
	audit *application.AuditService
}

// ListVendors godoc
// @Summary List vendors
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pending Approval, Approved or Declined"
// @Success 200 {array} vendor.Vendor
// @Router /admin/vendors [get]
func (a *AdminHandler) ListVendors(c *gin.Context) {
	var filter vendor.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid query"})
		return
	}
	vendors, err := a.svc.ListVendors(c.Request.Context(), filter)
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

// GetVendor godoc
// @Summary Get a vendor
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} vendor.Vendor
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/vendors/{id} [get]
func (a *AdminHandler) GetVendor(c *gin.Context) {
	v, err := a.svc.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Approve godoc
// @Summary Approve a pending vendor
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} vendor.Vendor
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Vendor already decided"
// @Router /admin/vendors/{id}/approve [post]
func (a *AdminHandler) Approve(c *gin.Context) {
	a.decide(c, a.svc.Approve)
}

// Decline godoc
// @Summary Decline a pending vendor
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} vendor.Vendor
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Vendor already decided"
// @Router /admin/vendors/{id}/decline [post]
func (a *AdminHandler) Decline(c *gin.Context) {
	a.decide(c, a.svc.Decline)
}

func (a *AdminHandler) decide(c *gin.Context, decide func(ctx context.Context, actor, vendorID string) (vendor.Vendor, error)) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	v, err := decide(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Audit godoc
// @Summary Recent admin actions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 100)"
// @Success 200 {array} audit.Entry
// @Router /admin/audit [get]
func (a *AdminHandler) Audit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := a.audit.List(c.Request.Context(), limit)
	if err != nil {
		a.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
