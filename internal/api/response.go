package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mwantia/gomaterials/internal/material"
	"github.com/mwantia/gomaterials/pkg/db/models"
	"github.com/mwantia/gomaterials/pkg/log"
)

type MaterialResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"desc"`
	Category    string  `json:"category"`
	PDFLink     string  `json:"pdf_link"`
	ImageLink   *string `json:"image_link"`
}

type linkBuilder struct {
	publicURL string
}

func newLinkBuilder(publicURL string) *linkBuilder {
	return &linkBuilder{publicURL: strings.TrimRight(publicURL, "/")}
}

// base returns scheme and host for links, preferring the configured public URL.
func (l *linkBuilder) base(r *http.Request) string {
	if l.publicURL != "" {
		return l.publicURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}

	return scheme + "://" + r.Host
}

// link escapes every segment of the stored path so reserved characters survive the round trip.
func (l *linkBuilder) link(r *http.Request, path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return l.base(r) + "/uploads/" + strings.Join(segments, "/")
}

func (l *linkBuilder) material(r *http.Request, m *models.Material) MaterialResponse {
	resp := MaterialResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		PDFLink:     l.link(r, m.PDFPath),
	}
	if m.HasImage() {
		link := l.link(r, *m.ImagePath)
		resp.ImageLink = &link
	}
	return resp
}

func statusOf(kind material.Kind) int {
	switch kind {
	case material.KindValidation:
		return http.StatusBadRequest
	case material.KindConflict:
		return http.StatusConflict
	case material.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps err onto a status and writes {"error": msg}. Causes of server errors are only logged.
func respondError(c *gin.Context, logger log.LoggerService, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	var merr *material.Error
	if errors.As(err, &merr) {
		status = statusOf(merr.Kind)
		switch {
		case status < 500:
			msg = merr.Error()
		case merr.Message != "":
			msg = merr.Message
		}
	}

	if status >= 500 && logger != nil {
		logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	c.JSON(status, gin.H{"error": msg})
}
