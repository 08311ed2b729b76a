package handlers

import (
	"net/http"

	"github.com/epeers/frontier/internal/models"
	"github.com/epeers/frontier/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// FrontierHandler handles frontier analysis endpoints
type FrontierHandler struct {
	frontierSvc *services.FrontierService
}

// NewFrontierHandler creates a new FrontierHandler
func NewFrontierHandler(frontierSvc *services.FrontierService) *FrontierHandler {
	return &FrontierHandler{
		frontierSvc: frontierSvc,
	}
}

// Analyze handles POST /frontier
// @Summary Compute the minimum-variance and tangency portfolios
// @Description Runs two independent constrained minimizations over inline statistics or a named dataset
// @Tags frontier
// @Accept json
// @Produce json
// @Param request body models.FrontierRequest true "Asset statistics and options"
// @Param X-Frontier-Trace header string false "Set to 1 to log objective terms at debug level"
// @Success 200 {object} models.FrontierResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /frontier [post]
func (h *FrontierHandler) Analyze(c *gin.Context) {
	var req models.FrontierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	warnCtx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.frontierSvc.Analyze(warnCtx, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()

	c.JSON(http.StatusOK, resp)
}

// Batch handles POST /frontier/batch
// @Summary Run several frontier analyses concurrently
// @Description Each analysis succeeds or fails on its own; results keep request order
// @Tags frontier
// @Accept json
// @Produce json
// @Param request body models.BatchRequest true "Analyses to run"
// @Success 200 {object} models.BatchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /frontier/batch [post]
func (h *FrontierHandler) Batch(c *gin.Context) {
	var req models.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	outcomes, err := h.frontierSvc.AnalyzeBatch(c.Request.Context(), req.Analyses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	resp := models.BatchResponse{Results: make([]models.BatchResult, len(outcomes))}
	for i, o := range outcomes {
		resp.Results[i].Index = i
		if o.Err != nil {
			_, body := classifyError(o.Err)
			resp.Results[i].Error = &body
			resp.Failed++
			continue
		}
		resp.Results[i].Frontier = o.Response
		resp.Succeeded++
	}
	if resp.Failed > 0 {
		log.Infof("frontier batch: %d of %d analyses failed", resp.Failed, len(outcomes))
	}

	c.JSON(http.StatusOK, resp)
}

// Scan handles POST /frontier/scan
// @Summary Evaluate a two-asset weight grid
// @Description Evaluates variance, stdev, mean and sharpe for evenly spaced w1 in [from, to] with w2 = 1 - w1
// @Tags frontier
// @Accept json
// @Produce json
// @Param request body models.ScanRequest true "Two-asset statistics and grid"
// @Success 200 {object} models.ScanResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /frontier/scan [post]
func (h *FrontierHandler) Scan(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.frontierSvc.Scan(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
