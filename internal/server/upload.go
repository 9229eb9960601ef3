package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// UploadImage stores a product image and returns the URL to reference it by.
func (s *Server) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	filename := s.genFilename(filepath.Ext(fileHeader.Filename))
	url, err := s.uploads.Save(c.Request.Context(), filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
