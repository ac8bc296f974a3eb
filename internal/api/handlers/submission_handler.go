package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/domain/submission"
	"github.com/linskybing/rfp-portal/pkg/response"
)

type SubmissionHandler struct {
	h        *Handlers
	svc      *application.SubmissionService
	approval *application.ApprovalService
}

// bindSubmission accepts either a JSON body or a multipart form carrying the
// JSON in a "data" field and an optional "pricingDocument" file.
func bindSubmission(c *gin.Context) (submission.FormData, *attachment.Upload, bool) {
	var form submission.FormData

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "data is required"})
			return form, nil, false
		}
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "data must be valid JSON"})
			return form, nil, false
		}
		pricing, err := formUpload(c, "pricingDocument")
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid pricing document: " + err.Error()})
			return form, nil, false
		}
		return form, pricing, true
	}

	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return form, nil, false
	}
	return form, nil, true
}

// List godoc
// @Summary List the vendor's submissions
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} submission.Submission
// @Router /vendor/submissions [get]
func (s *SubmissionHandler) List(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	subs, err := s.svc.List(c.Request.Context(), vendorID)
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// Create godoc
// @Summary Submit a proposal
// @Tags submissions
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param input body submission.FormData true "Proposal"
// @Success 201 {object} submission.CreateResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Account not approved"
// @Router /vendor/submissions [post]
func (s *SubmissionHandler) Create(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	form, pricing, ok := bindSubmission(c)
	if !ok {
		return
	}
	res, err := s.svc.Create(c.Request.Context(), vendorID, form, pricing)
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Get godoc
// @Summary Get one of the vendor's submissions
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} submission.Submission
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /vendor/submissions/{id} [get]
func (s *SubmissionHandler) Get(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	sub, err := s.svc.Get(c.Request.Context(), c.Param("id"), vendorID)
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Update godoc
// @Summary Resubmit a proposal
// @Description Editing sends the review back to Pending.
// @Tags submissions
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param input body submission.FormData true "Proposal"
// @Success 200 {object} submission.Submission
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /vendor/submissions/{id} [put]
func (s *SubmissionHandler) Update(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	form, pricing, ok := bindSubmission(c)
	if !ok {
		return
	}
	sub, err := s.svc.Update(c.Request.Context(), c.Param("id"), vendorID, form, pricing)
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// AdminList godoc
// @Summary List all submissions
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Review status"
// @Success 200 {array} submission.Submission
// @Router /admin/submissions [get]
func (s *SubmissionHandler) AdminList(c *gin.Context) {
	var filter submission.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid query"})
		return
	}
	subs, err := s.svc.AdminList(c.Request.Context(), filter)
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// AdminGet godoc
// @Summary Get any submission
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} submission.Submission
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/submissions/{id} [get]
func (s *SubmissionHandler) AdminGet(c *gin.Context) {
	sub, err := s.svc.AdminGet(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Review godoc
// @Summary Review a submission
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param input body submission.ReviewInput true "Review decision"
// @Success 200 {object} submission.Submission
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/submissions/{id}/review [put]
func (s *SubmissionHandler) Review(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input submission.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err, map[string]string{"Status": "status"})
		return
	}
	sub, err := s.approval.ReviewSubmission(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		s.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
