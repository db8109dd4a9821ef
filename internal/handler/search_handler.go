package handler

import (
	"net/http"
	"strconv"

	"github.com/Jigden18/portal-backend/internal/services"
	"github.com/Jigden18/portal-backend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service *services.SearchService
}

func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search serves GET /api/chat/search?q=&limit= for the new-conversation
// dropdown.
func (h *SearchHandler) Search(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, httpdto.NewErrorResponse("invalid limit", "VALIDATION_FAILED"))
			return
		}
		limit = parsed
	}

	results, err := h.service.Search(c.Request.Context(), userID, c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.SearchResponse[services.SearchResult]{Results: results})
}
