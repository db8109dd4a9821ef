package handler

import (
	"net/http"
	"time"

	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service *services.ProfileService
}

func NewProfileHandler(service *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	prof, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(prof))
}

// SaveProfile serves POST /api/profile as multipart form data so the
// photo can ride along.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	in := services.ProfileInput{
		FullName:   c.PostForm("full_name"),
		Email:      c.PostForm("email"),
		Address:    c.PostForm("address"),
		Occupation: c.PostForm("occupation"),
	}
	if raw := c.PostForm("date_of_birth"); raw != "" {
		dob, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("invalid date_of_birth", "VALIDATION_FAILED"))
			return
		}
		in.DateOfBirth = &dob
	}
	if fh, err := c.FormFile("photo"); err == nil {
		upload, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid photo", "INVALID_REQUEST"))
			return
		}
		in.Photo = upload
	}

	prof, err := h.service.SaveProfile(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(prof))
}

func (h *ProfileHandler) GetOrganization(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	org, err := h.service.GetOrganization(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(org))
}

// SaveOrganization serves POST /api/organization as multipart form
// data.
func (h *ProfileHandler) SaveOrganization(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	in := services.OrganizationInput{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Country:    c.PostForm("country"),
		Address:    c.PostForm("address"),
		RemoveLogo: c.PostForm("remove_logo") == "true",
	}
	if raw := c.PostForm("established_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("invalid established_date", "VALIDATION_FAILED"))
			return
		}
		in.EstablishedDate = &date
	}
	if fh, err := c.FormFile("logo"); err == nil {
		upload, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid logo", "INVALID_REQUEST"))
			return
		}
		in.Logo = upload
	}

	org, err := h.service.SaveOrganization(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(org))
}
