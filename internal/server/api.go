package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"PriceBoard/internal/calculator"
	"PriceBoard/internal/model"
	"PriceBoard/internal/notifier"
	"PriceBoard/internal/render"
	"PriceBoard/internal/strategy"
)

type selectRequest struct {
	ID string `json:"id" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"range":   snap.Range.ID,
		"version": snap.Version,
	})
}

func (s *Server) handleRanges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ranges":   s.ctrl.Catalog().Specs(),
		"selected": s.ctrl.Current(),
	})
}

func (s *Server) handleGetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, notifier.NewSelectionPayload(s.ctrl.Snapshot()))
}

func (s *Server) handlePutSelection(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"id\": \"<range id>\"}"})
		return
	}
	sel, err := s.ctrl.Select(req.ID)
	if err != nil {
		c.JSON(s.recordFailure(req.ID, err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, notifier.NewSelectionPayload(sel))
}

func (s *Server) handleIndicators(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	ind, err := calculator.Analyze(snap.Series)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"range_id":   snap.Range.ID,
		"version":    snap.Version,
		"indicators": ind,
	})
}

func (s *Server) handleOutlook(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	outlook, err := outlookFor(snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, outlook)
}

func (s *Server) handleChart(f render.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := s.ctrl.Snapshot()
		var buf bytes.Buffer
		if err := render.Series(&buf, snap.Series, f, render.Options{Title: snap.Range.Label}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
	}
}

// handleChartQuery serves the chart in the format named by ?format= (png by default).
func (s *Server) handleChartQuery(c *gin.Context) {
	f, err := render.ParseFormat(c.DefaultQuery("format", string(render.PNG)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.handleChart(f)(c)
}

func outlookFor(sel model.Selection) (*model.Outlook, error) {
	ind, err := calculator.Analyze(sel.Series)
	if err != nil {
		return nil, err
	}
	return strategy.Evaluate(sel.Range.ID, sel.Stats, ind), nil
}
