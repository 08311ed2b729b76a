package models

import (
	"time"
)

// Dataset source values
const (
	DatasetSourceBuiltin = "builtin"
	DatasetSourceStore   = "store"
)

// Dataset is a named set of per-asset statistics. Covariance is N x N with
// only the strict upper triangle meaningful.
type Dataset struct {
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Assets          []string    `json:"assets"`
	Volatilities    []float64   `json:"volatilities"`
	Covariance      [][]float64 `json:"covariance"`
	ExpectedReturns []float64   `json:"expected_returns"`
	RiskFreeRate    float64     `json:"risk_free_rate"`
	Source          string      `json:"source"`
	UpdatedAt       *time.Time  `json:"updated_at,omitempty"`
	Warnings        []Warning   `json:"warnings,omitempty"`
}

// DatasetRequest is the body of PUT /datasets/:name
type DatasetRequest struct {
	Description     string      `json:"description"`
	Assets          []string    `json:"assets" binding:"required"`
	Volatilities    []float64   `json:"volatilities" binding:"required"`
	Covariance      [][]float64 `json:"covariance" binding:"required"`
	ExpectedReturns []float64   `json:"expected_returns" binding:"required"`
	RiskFreeRate    float64     `json:"risk_free_rate"`
}

// DatasetListItem represents a dataset in a list (metadata only)
type DatasetListItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Assets      int    `json:"assets"`
	Source      string `json:"source"`
}

// DatasetListResponse is the body of GET /datasets
type DatasetListResponse struct {
	Datasets []DatasetListItem `json:"datasets"`
	Warnings []Warning         `json:"warnings,omitempty"`
}
