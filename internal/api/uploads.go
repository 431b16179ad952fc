package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwantia/gomaterials/pkg/attachment"
)

type UploadHandler struct {
	attachments AttachmentReader
}

// GET /uploads/:partition/:name
func (h *UploadHandler) Serve(c *gin.Context) {
	p := c.Param("partition") + "/" + c.Param("name")

	r, info, err := h.attachments.Open(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, attachment.ErrNotExist) || errors.Is(err, attachment.ErrInvalidPath) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open attachment"})
		return
	}
	defer r.Close()

	if info.ContentType != "" {
		c.Header("Content-Type", info.ContentType)
	}
	http.ServeContent(c.Writer, c.Request, info.Name, info.ModTime, r)
}
