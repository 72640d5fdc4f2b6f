package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bookforge/internal/services"
)

type createRunRequest struct {
	Topic        string `json:"topic" binding:"required"`
	Audience     string `json:"audience"`
	Tone         string `json:"tone"`
	Format       string `json:"format"`
	Requirements string `json:"requirements"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	OutputDir    string `json:"outputDir"`
	Streaming    bool   `json:"streaming"`
}

// handleCreateRun starts a book generation in the background and returns
// the run record immediately. Clients follow progress via the run's event
// stream or by polling the run resource.
func (s *Server) handleCreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := s.services.Runs.Launch(c.Request.Context(), services.RunOptions{
		Topic:        req.Topic,
		Audience:     req.Audience,
		Tone:         req.Tone,
		Format:       req.Format,
		Requirements: req.Requirements,
		Provider:     req.Provider,
		Model:        req.Model,
		OutputDir:    req.OutputDir,
		Streaming:    req.Streaming,
	})
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "recording run") {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, run)
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := s.services.Runs.ListRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.services.Runs.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleListModels(c *gin.Context) {
	groups, err := s.services.ModelConfigs.ListModelGroups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": groups})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	settings, err := s.services.Settings.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type setSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

func (s *Server) handleSetSetting(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := s.services.Settings.Set(c.Param("field"), req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}
