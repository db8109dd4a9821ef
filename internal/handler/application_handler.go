package handler

import (
	"net/http"
	"time"

	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	service *services.ApplicationService
}

func NewApplicationHandler(service *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply serves POST /api/jobs/:id/apply as multipart form data with the
// resume PDF.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("resume is required", "VALIDATION_FAILED"))
		return
	}
	resume, err := readUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid resume", "INVALID_REQUEST"))
		return
	}

	app, err := h.service.Apply(c.Request.Context(), userID, jobID, resume, c.PostForm("message"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(app))
}

// ListApplicants serves GET /api/org/jobs/:id/applications.
func (h *ApplicationHandler) ListApplicants(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	apps, err := h.service.ListApplicants(c.Request.Context(), userID, jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(apps))
}

// ListMyApplications serves GET /api/applications.
func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	apps, err := h.service.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(apps))
}

// GetApplication serves GET /api/applications/:id.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	app, err := h.service.GetApplication(c.Request.Context(), userID, applicationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(app))
}

// UpdateStatus serves PATCH /api/org/applications/:id/status.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req httpdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	in := services.StatusUpdateInput{
		Status:        req.Status,
		Message:       req.Message,
		InterviewTime: req.InterviewTime,
	}
	if req.InterviewDate != "" {
		date, err := time.Parse("2006-01-02", req.InterviewDate)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("invalid interview_date", "VALIDATION_FAILED"))
			return
		}
		in.InterviewDate = &date
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), userID, applicationID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(app))
}
