// Package swagger registers the OpenAPI document served at /swagger.
// Regenerate with `swag init -g cmd/server/server.go -o docs/swagger`.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/sessions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Create a pairing session",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/sessionreq.CreateSessionRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/sessionres.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/active": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "List active sessions",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionres.SessionList"}}}
            }
        },
        "/v1/sessions/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "List my recent sessions",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionres.SessionList"}}}
            }
        },
        "/v1/sessions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Get a session",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionres.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Join a session",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionres.SessionResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/end": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "End a session",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionres.SessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        },
        "/v1/sessions/{id}/credentials": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Sessions"],
                "summary": "Issue session credentials",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sessionres.CredentialsResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/responses.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "identity.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "avatar_url": {"type": "string"}
            }
        },
        "responses.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "message": {"type": "string"},
                        "type": {"type": "string"},
                        "code": {"type": "string"},
                        "request_id": {"type": "string"}
                    }
                }
            }
        },
        "sessionreq.CreateSessionRequest": {
            "type": "object",
            "required": ["problem", "difficulty"],
            "properties": {
                "problem": {"type": "string", "example": "Two Sum"},
                "difficulty": {"type": "string", "example": "easy"}
            }
        },
        "sessionres.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "object": {"type": "string", "example": "pairing.session"},
                "problem": {"type": "string"},
                "difficulty": {"type": "string"},
                "call_id": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "completed"]},
                "host_id": {"type": "string"},
                "participant_id": {"type": "string"},
                "host": {"$ref": "#/definitions/identity.Profile"},
                "participant": {"$ref": "#/definitions/identity.Profile"},
                "created_at": {"type": "integer"},
                "updated_at": {"type": "integer"}
            }
        },
        "sessionres.SessionList": {
            "type": "object",
            "properties": {
                "object": {"type": "string", "example": "list"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/sessionres.SessionResponse"}}
            }
        },
        "sessionres.CredentialsResponse": {
            "type": "object",
            "properties": {
                "object": {"type": "string", "example": "pairing.credentials"},
                "session_id": {"type": "string"},
                "call_id": {"type": "string"},
                "video": {
                    "type": "object",
                    "properties": {"url": {"type": "string"}, "token": {"type": "string"}, "expires_at": {"type": "integer"}}
                },
                "chat": {
                    "type": "object",
                    "properties": {"api_key": {"type": "string"}, "channel_type": {"type": "string"}, "channel_id": {"type": "string"}, "token": {"type": "string"}, "expires_at": {"type": "integer"}}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pairing API",
	Description:      "Pair-coding session lifecycle service: sessions, video calls and chat channels.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
