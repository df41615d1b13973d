package httpapi

import (
	"net/http"

	"github.com/Guilhem-Bonnet/showwatch/internal/httpjson"
)

// handleOpenAPI décrit l'API de statut du mode serve.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	jsonOK := func(schemaRef string) map[string]any {
		return map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": schemaRef},
				},
			},
		}
	}

	jsonErr := map[string]any{
		"description": "Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/Error"},
			},
		},
	}

	date := map[string]any{"type": "string", "format": "date"}

	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "showwatch API",
			"version": "v1",
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"OpenAPIDocument": map[string]any{
					"type":                 "object",
					"additionalProperties": true,
				},
				"Error": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
						"code":  map[string]any{"type": "string"},
					},
					"required": []any{"error"},
				},
				"Health": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status":  map[string]any{"type": "string"},
						"version": map[string]any{"type": "string"},
						"lastRun": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"runId":      map[string]any{"type": "string"},
								"outcome":    map[string]any{"type": "string", "enum": []any{"completed", "exhausted"}},
								"startedAt":  map[string]any{"type": "string", "format": "date-time"},
								"finishedAt": map[string]any{"type": "string", "format": "date-time"},
								"error":      map[string]any{"type": "string"},
							},
						},
					},
					"required": []any{"status", "version"},
				},
				"Watcher": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"movie":       map[string]any{"type": "string"},
						"cinema":      map[string]any{"type": "string"},
						"url":         map[string]any{"type": "string"},
						"enabled":     map[string]any{"type": "boolean"},
						"expiresAt":   map[string]any{"type": "string", "format": "date-time"},
						"active":      map[string]any{"type": "boolean"},
						"expired":     map[string]any{"type": "boolean"},
						"lastMaxDate": date,
					},
					"required": []any{"id", "movie", "cinema", "url", "enabled", "active", "expired"},
				},
				"WatcherList": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/components/schemas/Watcher"},
				},
				"State": map[string]any{
					"type":        "object",
					"description": "Dernière date max vue par watcher; la clé _meta porte heartbeat et notice d'expiration.",
					"additionalProperties": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"lastMaxDate":          date,
							"lastHeartbeatDate":    date,
							"allExpiredNotifiedAt": date,
						},
					},
				},
				"RunResult": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"runId":            map[string]any{"type": "string"},
						"outcome":          map[string]any{"type": "string", "enum": []any{"completed", "exhausted"}},
						"today":            date,
						"startedAt":        map[string]any{"type": "string", "format": "date-time"},
						"configured":       map[string]any{"type": "integer"},
						"active":           map[string]any{"type": "integer"},
						"notifications":    map[string]any{"type": "integer"},
						"heartbeatSent":    map[string]any{"type": "boolean"},
						"allExpiredSent":   map[string]any{"type": "boolean"},
						"workflowDisabled": map[string]any{"type": "boolean"},
						"stateChanged":     map[string]any{"type": "boolean"},
						"watchers": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"watcherId": map[string]any{"type": "string"},
									"decision":  map[string]any{"type": "string", "enum": []any{"skip", "seed", "notify", "unchanged"}},
									"dates":     map[string]any{"type": "integer"},
									"maxDate":   date,
									"prevDate":  date,
								},
							},
						},
					},
					"required": []any{"runId", "outcome", "today", "startedAt"},
				},
			},
		},
		"paths": map[string]any{
			"/api/v1/health": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/Health")}},
			},
			"/api/v1/version": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "OK"}}},
			},
			"/api/v1/openapi.json": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": jsonOK("#/components/schemas/OpenAPIDocument")}},
			},
			"/api/v1/events": map[string]any{
				"get": map[string]any{"responses": map[string]any{"200": map[string]any{"description": "SSE"}}},
			},
			"/api/v1/watchers": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/WatcherList"),
						"500": jsonErr,
					},
				},
			},
			"/api/v1/watchers/{id}": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/Watcher"),
						"404": jsonErr,
						"500": jsonErr,
					},
				},
			},
			"/api/v1/state": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/State"),
						"500": jsonErr,
					},
				},
			},
			"/api/v1/runs": map[string]any{
				"post": map[string]any{
					"responses": map[string]any{
						"200": jsonOK("#/components/schemas/RunResult"),
						"409": jsonErr,
						"500": jsonErr,
					},
				},
			},
		},
	}

	httpjson.Write(w, http.StatusOK, spec)
}
