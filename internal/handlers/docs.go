package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the FarmAssist API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	bearerAuth := []map[string]interface{}{{"bearerAuth": []string{}}}

	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "FarmAssist API",
			"description": "Farmer-facing platform for crop and fertilizer recommendations, growing activity tracking, mandi prices, and equipment sharing",
			"version":     "1.0.0",
			"contact": map[string]string{
				"name": "FarmAssist Team",
			},
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"components": map[string]interface{}{
			"securitySchemes": map[string]interface{}{
				"bearerAuth": map[string]string{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"paths": map[string]interface{}{
			"/api/auth/register": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Register a farmer account",
					"description": "Create an account and receive a JWT token",
					"requestBody": jsonBody(map[string]interface{}{
						"name":     map[string]string{"type": "string"},
						"email":    map[string]string{"type": "string", "format": "email"},
						"password": map[string]string{"type": "string", "minLength": "8"},
						"phone":    map[string]string{"type": "string"},
						"state":    map[string]string{"type": "string"},
						"district": map[string]string{"type": "string"},
					}),
					"responses": map[string]interface{}{
						"201": map[string]interface{}{"description": "Account created, token returned"},
						"409": map[string]interface{}{"description": "Email already registered"},
					},
				},
			},
			"/api/auth/login": map[string]interface{}{
				"post": map[string]interface{}{
					"summary": "Log in",
					"requestBody": jsonBody(map[string]interface{}{
						"email":    map[string]string{"type": "string", "format": "email"},
						"password": map[string]string{"type": "string"},
					}),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Token returned"},
						"401": map[string]interface{}{"description": "Invalid credentials"},
					},
				},
			},
			"/api/recommend/crop": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Recommend crops",
					"description": "Score crops for the given soil and climate parameters",
					"requestBody": jsonBody(map[string]interface{}{
						"nitrogen":    map[string]string{"type": "number"},
						"phosphorus":  map[string]string{"type": "number"},
						"potassium":   map[string]string{"type": "number"},
						"temperature": map[string]string{"type": "number"},
						"humidity":    map[string]string{"type": "number"},
						"ph":          map[string]string{"type": "number"},
						"rainfall":    map[string]string{"type": "number"},
					}),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Ranked crop recommendations with categories"},
						"400": map[string]interface{}{"description": "Input out of range"},
					},
				},
			},
			"/api/recommend/fertilizer": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":     "Recommend fertilizers",
					"description": "Score fertilizers for the given soil, crop and climate parameters",
					"requestBody": jsonBody(map[string]interface{}{
						"temperature": map[string]string{"type": "number"},
						"moisture":    map[string]string{"type": "number"},
						"rainfall":    map[string]string{"type": "number"},
						"ph":          map[string]string{"type": "number"},
						"nitrogen":    map[string]string{"type": "number"},
						"phosphorus":  map[string]string{"type": "number"},
						"potassium":   map[string]string{"type": "number"},
						"carbon":      map[string]string{"type": "number"},
						"soil":        map[string]string{"type": "string"},
						"crop":        map[string]string{"type": "string"},
					}),
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Ranked fertilizer recommendations with dosages"},
						"400": map[string]interface{}{"description": "Input out of range or missing soil/crop"},
					},
				},
			},
			"/api/recommend/fertilizer/options": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List soil and crop form options",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Soil and crop vocabularies"},
					},
				},
			},
			"/api/market/prices": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get mandi prices",
					"description": "Retrieve stored commodity prices with filtering and pagination",
					"parameters": []map[string]interface{}{
						queryParam("commodity", "Filter by commodity name", "string"),
						queryParam("state", "Filter by state", "string"),
						queryParam("district", "Filter by district", "string"),
						queryParam("page", "Page number (default: 1)", "integer"),
						queryParam("limit", "Records per page (default: 100)", "integer"),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Paginated price records"},
					},
				},
			},
			"/api/market/quote/{commodity}": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get commodity quote",
					"description": "Latest price with trend, change percent and 7-day projection",
					"parameters": []map[string]interface{}{
						{
							"name":     "commodity",
							"in":       "path",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Quote with trend fields"},
						"404": map[string]interface{}{"description": "No price data for commodity"},
					},
				},
			},
			"/api/dashboard": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":  "Get dashboard overview",
					"security": bearerAuth,
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Saved items, activities, notifications and stats"},
						"401": map[string]interface{}{"description": "Missing or invalid token"},
					},
				},
			},
			"/api/growing": map[string]interface{}{
				"post": map[string]interface{}{
					"summary":  "Start a growing activity",
					"security": bearerAuth,
					"requestBody": jsonBody(map[string]interface{}{
						"crop_name":   map[string]string{"type": "string"},
						"area_acres":  map[string]string{"type": "number"},
						"sowing_date": map[string]string{"type": "string", "format": "date"},
						"notes":       map[string]string{"type": "string"},
					}),
					"responses": map[string]interface{}{
						"201": map[string]interface{}{"description": "Activity created with task schedule"},
						"400": map[string]interface{}{"description": "Unknown crop or invalid area"},
					},
				},
				"get": map[string]interface{}{
					"summary":  "List growing activities",
					"security": bearerAuth,
					"parameters": []map[string]interface{}{
						queryParam("status", "Filter by status (active, completed)", "string"),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Activities for the authenticated user"},
					},
				},
			},
			"/api/equipment": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Browse shared equipment",
					"parameters": []map[string]interface{}{
						queryParam("district", "Filter by district", "string"),
						queryParam("category", "Filter by category", "string"),
						queryParam("status", "Filter by status", "string"),
					},
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "Paginated equipment listings"},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check if the API and database are reachable",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "API is healthy"},
						"503": map[string]interface{}{"description": "Database unreachable"},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": map[string]string{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}

func jsonBody(properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"required": true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": map[string]interface{}{
					"type":       "object",
					"properties": properties,
				},
			},
		},
	}
}

func queryParam(name, description, typ string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "query",
		"description": description,
		"required":    false,
		"schema":      map[string]string{"type": typ},
	}
}
