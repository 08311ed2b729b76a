package handlers

import (
	"net/http"
	"strconv"

	"github.com/epeers/frontier/internal/models"
	"github.com/epeers/frontier/internal/services"
	"github.com/gin-gonic/gin"
)

// DatasetHandler handles dataset endpoints
type DatasetHandler struct {
	frontierSvc *services.FrontierService
}

// NewDatasetHandler creates a new DatasetHandler
func NewDatasetHandler(frontierSvc *services.FrontierService) *DatasetHandler {
	return &DatasetHandler{
		frontierSvc: frontierSvc,
	}
}

// List handles GET /datasets
// @Summary List datasets
// @Description Lists stored and built-in datasets; stored datasets shadow built-ins of the same name
// @Tags datasets
// @Produce json
// @Success 200 {object} models.DatasetListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /datasets [get]
func (h *DatasetHandler) List(c *gin.Context) {
	warnCtx, wc := services.NewWarningContext(c.Request.Context())
	items, err := h.frontierSvc.ListDatasets(warnCtx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DatasetListResponse{
		Datasets: items,
		Warnings: wc.GetWarnings(),
	})
}

// Get handles GET /datasets/:name
// @Summary Get a dataset
// @Tags datasets
// @Produce json
// @Param name path string true "Dataset name"
// @Success 200 {object} models.Dataset
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /datasets/{name} [get]
func (h *DatasetHandler) Get(c *gin.Context) {
	warnCtx, wc := services.NewWarningContext(c.Request.Context())
	ds, err := h.frontierSvc.GetDataset(warnCtx, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ds.Warnings = wc.GetWarnings()

	c.JSON(http.StatusOK, ds)
}

// Put handles PUT /datasets/:name
// @Summary Store a dataset
// @Description Creates or replaces a dataset; requires the Postgres dataset store
// @Tags datasets
// @Accept json
// @Produce json
// @Param name path string true "Dataset name"
// @Param request body models.DatasetRequest true "Asset statistics"
// @Success 200 {object} models.Dataset
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /datasets/{name} [put]
func (h *DatasetHandler) Put(c *gin.Context) {
	var req models.DatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	ds, err := h.frontierSvc.SaveDataset(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ds)
}

// Analyze handles GET /datasets/:name/frontier
// @Summary Analyze a dataset
// @Tags datasets
// @Produce json
// @Param name path string true "Dataset name"
// @Param long_only query bool false "Restrict weights to [0, 1]"
// @Param reduced query bool false "Search over N-1 free weights"
// @Success 200 {object} models.FrontierResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /datasets/{name}/frontier [get]
func (h *DatasetHandler) Analyze(c *gin.Context) {
	longOnly, err := boolQuery(c, "long_only")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "long_only must be a boolean",
		})
		return
	}
	reduced, err := boolQuery(c, "reduced")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "reduced must be a boolean",
		})
		return
	}

	warnCtx, wc := services.NewWarningContext(c.Request.Context())
	resp, err := h.frontierSvc.AnalyzeDataset(warnCtx, c.Param("name"), longOnly, reduced)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Warnings = wc.GetWarnings()

	c.JSON(http.StatusOK, resp)
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
