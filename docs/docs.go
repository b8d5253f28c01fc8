// Package docs registers the Swagger document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {"tags": ["Auth"], "summary": "Register", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/auth/login": {
            "post": {"tags": ["Auth"], "summary": "Login", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Current user", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/conversations/start": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Start a conversation", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/conversations/{id}/message": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Send an agent message", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/conversations/{id}/end": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "End a conversation", "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/conversations/{id}/analyze": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Analyze a conversation", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/conversations/history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Conversation history", "produces": ["application/json"], "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/conversations/highest-score": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Highest score", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/conversations/last-score": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Conversations"], "summary": "Last score", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/streak/user/{userId}/streak": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Streak"], "summary": "Get streak", "produces": ["application/json"], "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Streak"], "summary": "Update streak", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/users/{userId}/difficulty": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Update difficulty", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/users/{userId}/level": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Update level", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/llm/chat/completions": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["LLM"], "summary": "Chat completion", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Loan Agent Trainer API",
	Description:      "Practice sales conversations with a simulated banking customer, get scored feedback and track daily streaks",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
