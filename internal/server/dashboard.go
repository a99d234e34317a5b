package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/calculator"
	"PriceBoard/internal/model"
	"PriceBoard/internal/notifier"
	"PriceBoard/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Tabs in display order.
var Tabs = []string{"Summary", "Chart", "Statistics", "Analysis", "Settings"}

const defaultTab = "Chart"

type tabLink struct {
	Name   string
	Active bool
}

type rangeButton struct {
	ID       string
	Label    string
	Selected bool
}

type dashboardView struct {
	Header     notifier.Header
	Tabs       []tabLink
	Tab        string
	KnownTab   bool
	Banner     string
	Version    uint64
	RangeLabel string
	Ranges     []rangeButton
	Summary    string
	ChartSVG   template.HTML
	Indicators *model.SeriesIndicators
	Outlook    *model.Outlook
	Settings   Settings
	Catalog    []model.RangeSpec
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"currency": func(v float64) string { return "$" + notifier.FormatCurrency(v) },
		"ratio":    func(v float64) string { return notifier.FormatPercent(v*100) + "%" },
		"signed":   func(v float64) string { return fmt.Sprintf("%+.3f", v) },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

func (s *Server) handleDashboard(c *gin.Context) {
	s.renderDashboard(c, http.StatusOK, c.DefaultQuery("tab", defaultTab), "")
}

// handleSelectForm switches range from the dashboard buttons. On failure the
// dashboard is re-rendered with the last good selection and an error banner.
func (s *Server) handleSelectForm(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.ctrl.Select(id); err != nil {
		status := s.recordFailure(id, err)
		s.renderDashboard(c, status, defaultTab, fmt.Sprintf("Could not select range %q: %v", id, err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/?tab="+defaultTab)
}

// renderDashboard builds every panel from one snapshot so the header and the
// chart always describe the same selection.
func (s *Server) renderDashboard(c *gin.Context, status int, tab, banner string) {
	snap := s.ctrl.Snapshot()

	view := dashboardView{
		Header:     notifier.FormatHeader(snap.Stats),
		Tab:        tab,
		Banner:     banner,
		Version:    snap.Version,
		RangeLabel: snap.Range.Label,
		Settings:   s.opts.Settings,
		Catalog:    s.ctrl.Catalog().Specs(),
	}
	for _, name := range Tabs {
		view.Tabs = append(view.Tabs, tabLink{Name: name, Active: name == tab})
		if name == tab {
			view.KnownTab = true
		}
	}
	for _, spec := range view.Catalog {
		view.Ranges = append(view.Ranges, rangeButton{ID: spec.ID, Label: spec.Label, Selected: spec.ID == snap.Range.ID})
	}

	switch tab {
	case "Summary":
		view.Summary = notifier.FormatSummary(snap)
	case "Chart":
		var buf bytes.Buffer
		if err := render.Series(&buf, snap.Series, render.SVG, render.Options{}); err != nil {
			log.WithError(err).Warn("render dashboard chart")
		} else {
			view.ChartSVG = template.HTML(buf.String())
		}
	case "Statistics":
		ind, err := calculator.Analyze(snap.Series)
		if err != nil {
			log.WithError(err).Warn("analyze series")
		}
		view.Indicators = ind
	case "Analysis":
		outlook, err := outlookFor(snap)
		if err != nil {
			log.WithError(err).Warn("evaluate outlook")
		}
		view.Outlook = outlook
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "dashboard.html", view); err != nil {
		log.WithError(err).Error("render dashboard")
		c.String(http.StatusInternalServerError, "dashboard unavailable")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
