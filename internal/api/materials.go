package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mwantia/gomaterials/internal/material"
	"github.com/mwantia/gomaterials/pkg/log"
)

type MaterialHandler struct {
	service       MaterialService
	links         *linkBuilder
	log           log.LoggerService
	maxUploadSize int64
}

// multipartRequest holds the parsed form of a create or update request.
type multipartRequest struct {
	fields   material.Fields
	document *material.Upload
	image    *material.Upload
	closers  []multipart.File
}

func (r *multipartRequest) Close() {
	for _, f := range r.closers {
		f.Close()
	}
}

// POST /api/materials
func (h *MaterialHandler) Create(c *gin.Context) {
	req, ok := h.parse(c)
	if !ok {
		return
	}
	defer req.Close()

	m, err := h.service.Create(c.Request.Context(), req.fields, req.document, req.image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Material created successfully",
		"material": h.links.material(c.Request, m),
	})
}

// GET /api/materials
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		resp = append(resp, h.links.material(c.Request, &materials[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.links.material(c.Request, m))
}

// PUT /api/materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, ok := h.parse(c)
	if !ok {
		return
	}
	defer req.Close()

	m, err := h.service.Update(c.Request.Context(), id, req.fields, req.document, req.image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Material updated successfully",
		"material": h.links.material(c.Request, m),
	})
}

// DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid material id '%s'", c.Param("id"))})
		return 0, false
	}
	return uint(id), true
}

// parse reads the text fields and the optional pdf and image parts. Plain url-encoded bodies are
// accepted too and simply carry no files.
func (h *MaterialHandler) parse(c *gin.Context) (*multipartRequest, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	req := &multipartRequest{}

	form, err := c.MultipartForm()
	switch {
	case err == nil:
	case errors.Is(err, http.ErrNotMultipart):
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
			return nil, false
		}
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return nil, false
	}

	req.fields = material.Fields{
		Name:        c.PostForm("name"),
		Description: c.PostForm("desc"),
		Category:    c.PostForm("category"),
	}

	if form != nil {
		if req.document, err = req.open(form, "pdf"); err != nil {
			req.Close()
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read pdf file"})
			return nil, false
		}
		if req.image, err = req.open(form, "image"); err != nil {
			req.Close()
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
			return nil, false
		}
	}

	return req, true
}

func (r *multipartRequest) open(form *multipart.Form, field string) (*material.Upload, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}

	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, f)

	return &material.Upload{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Content:   f,
	}, nil
}
