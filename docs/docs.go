// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/frontier": {
            "post": {
                "description": "Runs two independent constrained minimizations over inline statistics or a named dataset",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["frontier"],
                "summary": "Compute the minimum-variance and tangency portfolios",
                "parameters": [
                    {"description": "Asset statistics and options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.FrontierRequest"}},
                    {"type": "string", "description": "Set to 1 to log objective terms at debug level", "name": "X-Frontier-Trace", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FrontierResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/frontier/batch": {
            "post": {
                "description": "Each analysis succeeds or fails on its own; results keep request order",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["frontier"],
                "summary": "Run several frontier analyses concurrently",
                "parameters": [
                    {"description": "Analyses to run", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BatchRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.BatchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/frontier/scan": {
            "post": {
                "description": "Evaluates variance, stdev, mean and sharpe for evenly spaced w1 in [from, to] with w2 = 1 - w1",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["frontier"],
                "summary": "Evaluate a two-asset weight grid",
                "parameters": [
                    {"description": "Two-asset statistics and grid", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ScanResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/datasets": {
            "get": {
                "description": "Lists stored and built-in datasets; stored datasets shadow built-ins of the same name",
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "List datasets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DatasetListResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/datasets/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "Get a dataset",
                "parameters": [
                    {"type": "string", "description": "Dataset name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Dataset"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "description": "Creates or replaces a dataset; requires the Postgres dataset store",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "Store a dataset",
                "parameters": [
                    {"type": "string", "description": "Dataset name", "name": "name", "in": "path", "required": true},
                    {"description": "Asset statistics", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.DatasetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Dataset"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/datasets/{name}/frontier": {
            "get": {
                "produces": ["application/json"],
                "tags": ["datasets"],
                "summary": "Analyze a dataset",
                "parameters": [
                    {"type": "string", "description": "Dataset name", "name": "name", "in": "path", "required": true},
                    {"type": "boolean", "description": "Restrict weights to [0, 1]", "name": "long_only", "in": "query"},
                    {"type": "boolean", "description": "Search over N-1 free weights", "name": "reduced", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FrontierResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.AssetWeight": {
            "type": "object",
            "properties": {
                "asset": {"type": "string"},
                "weight": {"type": "number"}
            }
        },
        "models.BatchRequest": {
            "type": "object",
            "required": ["analyses"],
            "properties": {
                "analyses": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/models.FrontierRequest"}}
            }
        },
        "models.BatchResponse": {
            "type": "object",
            "properties": {
                "failed": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/models.BatchResult"}},
                "succeeded": {"type": "integer"}
            }
        },
        "models.BatchResult": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/models.ErrorResponse"},
                "frontier": {"$ref": "#/definitions/models.FrontierResponse"},
                "index": {"type": "integer"}
            }
        },
        "models.Dataset": {
            "type": "object",
            "properties": {
                "assets": {"type": "array", "items": {"type": "string"}},
                "covariance": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "description": {"type": "string"},
                "expected_returns": {"type": "array", "items": {"type": "number"}},
                "name": {"type": "string"},
                "risk_free_rate": {"type": "number"},
                "source": {"type": "string"},
                "updated_at": {"type": "string"},
                "volatilities": {"type": "array", "items": {"type": "number"}},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.DatasetListItem": {
            "type": "object",
            "properties": {
                "assets": {"type": "integer"},
                "description": {"type": "string"},
                "name": {"type": "string"},
                "source": {"type": "string"}
            }
        },
        "models.DatasetListResponse": {
            "type": "object",
            "properties": {
                "datasets": {"type": "array", "items": {"$ref": "#/definitions/models.DatasetListItem"}},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.DatasetRequest": {
            "type": "object",
            "required": ["assets", "covariance", "expected_returns", "volatilities"],
            "properties": {
                "assets": {"type": "array", "items": {"type": "string"}},
                "covariance": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "description": {"type": "string"},
                "expected_returns": {"type": "array", "items": {"type": "number"}},
                "risk_free_rate": {"type": "number"},
                "volatilities": {"type": "array", "items": {"type": "number"}}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.FrontierRequest": {
            "type": "object",
            "properties": {
                "assets": {"type": "array", "items": {"type": "string"}},
                "covariance": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "dataset": {"type": "string"},
                "expected_returns": {"type": "array", "items": {"type": "number"}},
                "initial_weights": {"type": "array", "items": {"type": "number"}},
                "long_only": {"type": "boolean"},
                "reduced": {"type": "boolean"},
                "risk_free_rate": {"type": "number"},
                "volatilities": {"type": "array", "items": {"type": "number"}}
            }
        },
        "models.FrontierResponse": {
            "type": "object",
            "properties": {
                "assets": {"type": "array", "items": {"type": "string"}},
                "dataset": {"type": "string"},
                "long_only": {"type": "boolean"},
                "min_variance": {"$ref": "#/definitions/models.PortfolioReport"},
                "reduced": {"type": "boolean"},
                "tangency": {"$ref": "#/definitions/models.PortfolioReport"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/models.Warning"}}
            }
        },
        "models.OptimizerReport": {
            "type": "object",
            "properties": {
                "converged": {"type": "boolean"},
                "evaluations": {"type": "integer"},
                "iterations": {"type": "integer"},
                "objective": {"type": "number"},
                "status": {"type": "string"}
            }
        },
        "models.PortfolioReport": {
            "type": "object",
            "properties": {
                "mean": {"type": "number"},
                "mean_percent": {"type": "number"},
                "optimizer": {"$ref": "#/definitions/models.OptimizerReport"},
                "sharpe": {"type": "number"},
                "stdev": {"type": "number"},
                "stdev_percent": {"type": "number"},
                "weights": {"type": "array", "items": {"$ref": "#/definitions/models.AssetWeight"}}
            }
        },
        "models.ScanPoint": {
            "type": "object",
            "properties": {
                "mean": {"type": "number"},
                "mean_percent": {"type": "number"},
                "sharpe": {"type": "number"},
                "stdev": {"type": "number"},
                "stdev_percent": {"type": "number"},
                "variance": {"type": "number"},
                "weight": {"type": "number"}
            }
        },
        "models.ScanRequest": {
            "type": "object",
            "required": ["steps"],
            "properties": {
                "covariance": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}},
                "dataset": {"type": "string"},
                "expected_returns": {"type": "array", "items": {"type": "number"}},
                "from": {"type": "number"},
                "risk_free_rate": {"type": "number"},
                "steps": {"type": "integer", "minimum": 2},
                "to": {"type": "number"},
                "volatilities": {"type": "array", "items": {"type": "number"}}
            }
        },
        "models.ScanResponse": {
            "type": "object",
            "properties": {
                "dataset": {"type": "string"},
                "minimum": {"$ref": "#/definitions/models.ScanPoint"},
                "points": {"type": "array", "items": {"$ref": "#/definitions/models.ScanPoint"}}
            }
        },
        "models.Warning": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Frontier API",
	Description:      "Minimum-variance and tangency portfolio analysis.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
