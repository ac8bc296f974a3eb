package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/domain/draft"
	"github.com/linskybing/rfp-portal/pkg/response"
)

type DraftHandler struct {
	h   *Handlers
	svc *application.DraftService
}

// Get godoc
// @Summary Load the vendor's draft
// @Description Returns draft null when the vendor has not saved one yet.
// @Tags draft
// @Produce json
// @Security BearerAuth
// @Success 200 {object} draft.Loaded
// @Router /vendor/draft [get]
func (d *DraftHandler) Get(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	loaded, err := d.svc.Load(c.Request.Context(), vendorID)
	if err != nil {
		d.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loaded)
}

// Save godoc
// @Summary Save the vendor's draft
// @Tags draft
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body draft.SaveInput true "Opaque form state"
// @Success 200 {object} draft.SaveResult
// @Failure 400 {object} response.ErrorResponse
// @Router /vendor/draft [put]
func (d *DraftHandler) Save(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	var input draft.SaveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err, map[string]string{"FormData": "formData"})
		return
	}
	res, err := d.svc.Save(c.Request.Context(), vendorID, input.FormData)
	if err != nil {
		d.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete godoc
// @Summary Delete the vendor's draft
// @Tags draft
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.CountResponse
// @Router /vendor/draft [delete]
func (d *DraftHandler) Delete(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	n, err := d.svc.Delete(c.Request.Context(), vendorID)
	if err != nil {
		d.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CountResponse{Message: "Draft deleted", Count: n})
}

// Sweep godoc
// @Summary Purge stale drafts
// @Tags maintenance
// @Produce json
// @Param retention query string false "Retention as a Go duration, e.g. 720h"
// @Success 200 {object} response.CountResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /maintenance/drafts/sweep [post]
func (d *DraftHandler) Sweep(c *gin.Context) {
	var retention time.Duration
	if raw := c.Query("retention"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "retention must be a positive duration"})
			return
		}
		retention = parsed
	}
	n, err := d.svc.Sweep(c.Request.Context(), retention)
	if err != nil {
		d.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CountResponse{Message: "Stale drafts removed", Count: n})
}
