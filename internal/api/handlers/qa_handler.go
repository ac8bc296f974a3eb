package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/rfp-portal/internal/application"
	"github.com/linskybing/rfp-portal/internal/domain/qa"
	"github.com/linskybing/rfp-portal/pkg/response"
)

type QAHandler struct {
	h   *Handlers
	svc *application.QAService
}

var qaLabels = map[string]string{
	"Step":     "step",
	"Question": "question",
	"Answer":   "answer",
}

// VendorThreads godoc
// @Summary Q&A threads of the vendor's submissions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} qa.ThreadList
// @Router /vendor/questions [get]
func (q *QAHandler) VendorThreads(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	list, err := q.svc.ThreadsForVendor(c.Request.Context(), vendorID)
	if err != nil {
		q.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Ask godoc
// @Summary Ask a question about a submission step
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param input body qa.AskInput true "Question"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /vendor/submissions/{id}/questions [post]
func (q *QAHandler) Ask(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	var input qa.AskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err, qaLabels)
		return
	}
	if err := q.svc.AskQuestion(c.Request.Context(), vendorID, c.Param("id"), input); err != nil {
		q.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Question saved"})
}

// MarkRead godoc
// @Summary Mark answers as read
// @Description Without a submissionId every owned submission with answers is marked.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body qa.MarkReadInput false "Optional submission scope"
// @Success 200 {object} response.CountResponse
// @Router /vendor/questions/read [post]
func (q *QAHandler) MarkRead(c *gin.Context) {
	vendorID, ok := vendorIDOrAbort(c)
	if !ok {
		return
	}
	var input qa.MarkReadInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}
	n, err := q.svc.MarkRead(c.Request.Context(), vendorID, input.SubmissionID)
	if err != nil {
		q.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CountResponse{Message: "Answers marked as read", Count: n})
}

// AdminThreads godoc
// @Summary All Q&A threads
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} qa.ThreadList
// @Router /admin/questions [get]
func (q *QAHandler) AdminThreads(c *gin.Context) {
	list, err := q.svc.ThreadsForAdmin(c.Request.Context())
	if err != nil {
		q.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Answer godoc
// @Summary Answer a vendor question
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param input body qa.AnswerInput true "Answer"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/submissions/{id}/answers [post]
func (q *QAHandler) Answer(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input qa.AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err, qaLabels)
		return
	}
	if err := q.svc.PostAnswer(c.Request.Context(), actor, c.Param("id"), input); err != nil {
		q.h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Answer posted"})
}
