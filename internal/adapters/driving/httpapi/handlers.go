package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// getTagsRequest is the /get-tags body.
type getTagsRequest struct {
	domain.TagRequest
	Apply bool `json:"apply,omitempty"`
}

// internalLinksRequest is the /internal-links body.
type internalLinksRequest struct {
	domain.LinkRequest
	Append bool `json:"append,omitempty"`
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.POST("/get-tags", s.handleGetTags)
	s.engine.POST("/internal-links", s.handleInternalLinks)

	api := s.engine.Group("/api")
	api.GET("/status", s.handleStatus)
	api.POST("/echo", s.handleEcho)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the vaultag API"})
}

func (s *Server) handleGetTags(c *gin.Context) {
	var req getTagsRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.ports.Tagging.GenerateTags(c.Request.Context(), req.TagRequest)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{"tags": result.Tags}
	if result.RunID != "" {
		resp["run_id"] = result.RunID
	}
	if req.Apply {
		n, err := s.ports.Tagging.ApplyTags(c.Request.Context(), result.Tags)
		if err != nil {
			abortWithError(c, err)
			return
		}
		resp["applied"] = n
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleInternalLinks(c *gin.Context) {
	var req internalLinksRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}

	result, err := s.ports.Links.FindRelated(c.Request.Context(), req.LinkRequest)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if req.Append {
		if err := s.ports.Links.AppendRelated(c.Request.Context(), req.Path, result); err != nil {
			abortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"internal_link": result})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "running"})
}

func (s *Server) handleEcho(c *gin.Context) {
	data := map[string]any{}
	if err := bindOptionalJSON(c, &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"echo": data})
}

// bindOptionalJSON decodes the body into v. An empty body leaves v unchanged.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
