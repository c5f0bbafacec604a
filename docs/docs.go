// Package docs holds the OpenAPI document served under /api/swagger.
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
        "/skills": {
            "get": {
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "List skills",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Skill"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "Create a skill",
                "parameters": [
                    {"description": "Skill", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.CreateSkillRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Skill"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/skills/{id}/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["skills"],
                "summary": "Users offering and seeking a skill",
                "parameters": [
                    {"type": "integer", "description": "Skill ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.SkillHolders"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/swaps/propose": {
            "post": {
                "description": "Both users are checked before both skills. The new swap is pending.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["swaps"],
                "summary": "Propose a swap",
                "parameters": [
                    {"description": "Proposal", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.ProposeSwapRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Swap"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/swaps/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["swaps"],
                "summary": "Get a swap",
                "parameters": [
                    {"type": "integer", "description": "Swap ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Swap"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/swaps/{id}/respond": {
            "post": {
                "description": "Overwrites the status. Neither the caller nor the current status is checked.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["swaps"],
                "summary": "Accept or reject a swap",
                "parameters": [
                    {"type": "integer", "description": "Swap ID", "name": "id", "in": "path", "required": true},
                    {"description": "accepted or rejected", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.RespondSwapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Swap"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "description": "Returns every user with both skill lists. Not paginated.",
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}}
                }
            }
        },
        "/users/login": {
            "post": {
                "description": "Verify a username and password and return a signed token. No route requires the token yet.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "User login",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.LoginResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/register": {
            "post": {
                "description": "Create a user account. The password is stored as a bcrypt hash and never returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a user",
                "parameters": [
                    {"description": "Registration request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/skills/offered": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Add an offered skill",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Skill to link", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.SkillLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/skills/seeking": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Add a sought skill",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Skill to link", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/server.SkillLinkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/swaps": {
            "get": {
                "description": "Swaps the user proposed or received, newest first.",
                "produces": ["application/json"],
                "tags": ["swaps"],
                "summary": "List a user's swaps",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Swap"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "models.Skill": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "id": {"type": "integer"},
                "name": {"type": "string"}
            }
        },
        "models.Swap": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "message": {"type": "string"},
                "offered_skill": {"$ref": "#/definitions/models.Skill"},
                "proposer": {"$ref": "#/definitions/models.User"},
                "receiver": {"$ref": "#/definitions/models.User"},
                "requested_skill": {"$ref": "#/definitions/models.Skill"},
                "status": {"type": "string", "enum": ["pending", "accepted", "rejected", "completed", "cancelled"]},
                "timestamp": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "bio": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "integer"},
                "location": {"type": "string"},
                "skills_offered": {"type": "array", "items": {"$ref": "#/definitions/models.Skill"}},
                "skills_seeking": {"type": "array", "items": {"$ref": "#/definitions/models.Skill"}},
                "username": {"type": "string"}
            }
        },
        "server.CreateSkillRequest": {
            "type": "object",
            "required": ["category", "name"],
            "properties": {
                "category": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "server.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "server.ProposeSwapRequest": {
            "type": "object",
            "required": ["offered_skill_id", "proposer_id", "receiver_id", "requested_skill_id"],
            "properties": {
                "message": {"type": "string"},
                "offered_skill_id": {"type": "integer"},
                "proposer_id": {"type": "integer"},
                "receiver_id": {"type": "integer"},
                "requested_skill_id": {"type": "integer"}
            }
        },
        "server.RegisterRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "location": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "server.RespondSwapRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["accepted", "rejected"]}
            }
        },
        "server.SkillLinkRequest": {
            "type": "object",
            "required": ["skill_id"],
            "properties": {
                "skill_id": {"type": "integer"}
            }
        },
        "service.LoginResult": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "service.SkillHolders": {
            "type": "object",
            "properties": {
                "offering": {"type": "array", "items": {"$ref": "#/definitions/models.User"}},
                "seeking": {"type": "array", "items": {"$ref": "#/definitions/models.User"}},
                "skill": {"$ref": "#/definitions/models.Skill"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "SkillSwap API",
	Description:      "Skill exchange marketplace: users, skills and skill swaps.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
