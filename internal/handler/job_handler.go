package handler

import (
	"net/http"
	"strconv"

	"github.com/Jigden18/portal-backend/internal/domain/job"
	"github.com/Jigden18/portal-backend/internal/repository"
	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	service *services.JobService
}

func NewJobHandler(service *services.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// CreateVacancy serves POST /api/org/jobs.
func (h *JobHandler) CreateVacancy(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req httpdto.VacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	v, err := h.service.CreateVacancy(c.Request.Context(), userID, vacancyInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(v))
}

// UpdateVacancy serves PUT /api/org/jobs/:id.
func (h *JobHandler) UpdateVacancy(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req httpdto.VacancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	v, err := h.service.UpdateVacancy(c.Request.Context(), userID, vacancyID, vacancyInput(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(v))
}

// ToggleVacancyStatus serves POST /api/org/jobs/:id/toggle-status.
func (h *JobHandler) ToggleVacancyStatus(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.ToggleVacancyStatus(c.Request.Context(), userID, vacancyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(v))
}

// ListOrganizationVacancies serves GET /api/org/jobs.
func (h *JobHandler) ListOrganizationVacancies(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	vacancies, err := h.service.ListOrganizationVacancies(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(vacancies))
}

// SearchVacancies serves GET /api/jobs with seeker-side filters.
func (h *JobHandler) SearchVacancies(c *gin.Context) {
	if _, ok := authedUser(c); !ok {
		return
	}

	f := repository.VacancySearchFilter{
		Keyword:  c.Query("q"),
		Field:    c.Query("field"),
		Type:     c.Query("type"),
		Location: c.Query("location"),
	}
	f.MinSalary, _ = strconv.ParseFloat(c.Query("min_salary"), 64)
	f.MaxSalary, _ = strconv.ParseFloat(c.Query("max_salary"), 64)
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	f.Offset, _ = strconv.Atoi(c.Query("offset"))

	jobs, total, err := h.service.SearchVacancies(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.JobListResponse[job.Vacancy]{
		Jobs:  jobs,
		Total: total,
	}))
}

// GetVacancy serves GET /api/jobs/:id.
func (h *JobHandler) GetVacancy(c *gin.Context) {
	if _, ok := authedUser(c); !ok {
		return
	}
	vacancyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.service.GetVacancy(c.Request.Context(), vacancyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(v))
}

// ListCategories serves GET /api/jobs/categories.
func (h *JobHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(categories))
}

// ToggleBookmark serves POST /api/jobs/:id/bookmark.
func (h *JobHandler) ToggleBookmark(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookmarked, err := h.service.ToggleBookmark(c.Request.Context(), userID, jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.BookmarkResponse{Bookmarked: bookmarked}))
}

// ListBookmarkedJobs serves GET /api/bookmarks.
func (h *JobHandler) ListBookmarkedJobs(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	jobs, err := h.service.ListBookmarkedJobs(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(jobs))
}

// SetPreferences serves POST /api/preferences.
func (h *JobHandler) SetPreferences(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	var req httpdto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}
	if err := h.service.SetPreferences(c.Request.Context(), userID, req.CategoryIDs); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Preferences saved"))
}

// ListPreferences serves GET /api/preferences.
func (h *JobHandler) ListPreferences(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	prefs, err := h.service.ListPreferences(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(prefs))
}

func vacancyInput(req httpdto.VacancyRequest) services.VacancyInput {
	return services.VacancyInput{
		Position:     req.Position,
		Field:        req.Field,
		Salary:       req.Salary,
		Currency:     req.Currency,
		Location:     req.Location,
		Type:         req.Type,
		Requirements: req.Requirements,
	}
}
