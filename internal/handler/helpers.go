package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/Jigden18/portal-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func userIDFromRequest(c *gin.Context) (int64, error) {
	return services.UserIDFromContext(c.Request.Context())
}

// readUpload drains one multipart file into a services.FileUpload.
func readUpload(fh *multipart.FileHeader) (*services.FileUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
