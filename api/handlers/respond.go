package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/footballinvestment/lion-football-academy/internal/logger"
)

// Meta travels with every successful response.
type Meta struct {
	AnalysisType string `json:"analysisType"`
	Timestamp    string `json:"timestamp"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    Meta        `json:"meta"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, analysisType string, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
		Meta: Meta{
			AnalysisType: analysisType,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// respondError reports an unhandled failure. There is no partial-success
// contract: any failure in an analysis call maps to a 500.
func respondError(c *gin.Context, analysisType string, err error) {
	logger.ErrorCtxf(c.Request.Context(), "Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   analysisType + " failed",
		Message: err.Error(),
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request",
		Message: message,
	})
}
