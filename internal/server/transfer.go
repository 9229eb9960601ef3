package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportProducts bulk-creates products from an uploaded CSV file.
func (s *Server) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
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

	created, err := s.productSvc.Import(c.Request.Context(), file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("CSV imported successfully! %d products created", created),
	})
}

// ExportProducts streams the catalog as a CSV attachment.
func (s *Server) ExportProducts(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename=products.csv`)
	c.Header("Content-Type", "text/csv")

	if err := s.productSvc.Export(c.Request.Context(), c.Writer); err != nil {
		// headers are already out; the best we can do is log and cut the stream
		s.log.Error("csv export failed", zap.Error(err))
		c.Abort()
	}
}
