package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/footballinvestment/lion-football-academy/internal/analytics"
	"github.com/footballinvestment/lion-football-academy/internal/composer"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/models"
	"github.com/footballinvestment/lion-football-academy/pkg/validation"
)

type AnalyticsHandler struct {
	service *analytics.Service
	config  config.APIConfig
}

func NewAnalyticsHandler(service *analytics.Service, cfg config.APIConfig) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		config:  cfg,
	}
}

// subjectID validates the :id path parameter; a false return means the
// request was already answered with a 400.
func subjectID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := validation.ValidateID(id); err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return id, true
}

// weeks reads the ?weeks query parameter, bounded to the configured maximum.
func (h *AnalyticsHandler) weeks(c *gin.Context) int {
	raw := c.Query("weeks")
	if raw == "" {
		return h.config.DefaultWeeks
	}
	n, err := strconv.Atoi(raw)
	if err != nil || validation.ValidateWindowWeeks(n, 0) != nil {
		return h.config.DefaultWeeks
	}
	if h.config.MaxWeeks > 0 && n > h.config.MaxWeeks {
		return h.config.MaxWeeks
	}
	return n
}

func (h *AnalyticsHandler) PlayerAnalysis(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	analysis, err := h.service.AnalyzeSubjectPerformance(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "player_analysis", err)
		return
	}
	respondOK(c, "player_analysis", analysis)
}

func (h *AnalyticsHandler) PlayerTips(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	analysis, err := h.service.AnalyzeSubjectPerformance(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "coaching_tips", err)
		return
	}
	respondOK(c, "coaching_tips", composer.CoachingTips(analysis))
}

func (h *AnalyticsHandler) PlayerRisk(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	analysis, err := h.service.AnalyzeSubjectPerformance(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "risk_assessment", err)
		return
	}
	respondOK(c, "risk_assessment", analysis.RiskAssessment)
}

func (h *AnalyticsHandler) PlayerRecommendations(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	analysis, err := h.service.AnalyzeSubjectPerformance(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "recommendations", err)
		return
	}
	respondOK(c, "recommendations", analysis.Recommendations)
}

func (h *AnalyticsHandler) PlayerMilestones(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	milestones, err := h.service.DetectMilestones(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "milestones", err)
		return
	}

	notices := make([]models.Notification, 0, len(milestones))
	for _, m := range milestones {
		notices = append(notices, composer.MilestoneNotice(id, "", m))
	}

	respondOK(c, "milestones", gin.H{
		"milestones": milestones,
		"notices":    notices,
	})
}

func (h *AnalyticsHandler) PlayerReport(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	weeks := h.weeks(c)
	if c.Query("weekly") == "true" {
		weeks = 1
	}
	analysis, err := h.service.AnalyzeSubjectPerformance(c.Request.Context(), id, weeks)
	if err != nil {
		respondError(c, "progress_report", err)
		return
	}
	respondOK(c, "progress_report", composer.BuildProgressReport(analysis, ""))
}

// PlayerDashboard combines analysis, tips, risk, alert and milestones in one
// response.
func (h *AnalyticsHandler) PlayerDashboard(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	analysis, err := h.service.AnalyzeSubjectPerformance(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}

	respondOK(c, "dashboard", gin.H{
		"analysis":   analysis,
		"tips":       composer.CoachingTips(analysis),
		"risk":       analysis.RiskAssessment,
		"alert":      composer.PerformanceAlert(analysis, ""),
		"milestones": h.milestonesOrEmpty(c, analysis.SubjectID),
	})
}

func (h *AnalyticsHandler) milestonesOrEmpty(c *gin.Context, playerID string) []models.Milestone {
	milestones, err := h.service.DetectMilestones(c.Request.Context(), playerID, h.weeks(c))
	if err != nil {
		return []models.Milestone{}
	}
	return milestones
}

func (h *AnalyticsHandler) TeamPatterns(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	patterns, err := h.service.AnalyzeGroupPatterns(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "group_patterns", err)
		return
	}
	respondOK(c, "group_patterns", patterns)
}

func (h *AnalyticsHandler) TeamTrajectory(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	prediction, err := h.service.PredictGroupTrajectory(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "group_trajectory", err)
		return
	}
	respondOK(c, "group_trajectory", prediction)
}

func (h *AnalyticsHandler) TeamFormation(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	plan, err := h.service.OptimizeAssignment(c.Request.Context(), id)
	if err != nil {
		respondError(c, "formation_optimization", err)
		return
	}
	respondOK(c, "formation_optimization", plan)
}

func (h *AnalyticsHandler) TeamScheduleRecommendation(c *gin.Context) {
	id, ok := subjectID(c)
	if !ok {
		return
	}
	recommendation, err := h.service.GenerateScheduleRecommendation(c.Request.Context(), id, h.weeks(c))
	if err != nil {
		respondError(c, "schedule_recommendation", err)
		return
	}
	respondOK(c, "schedule_recommendation", recommendation)
}
