// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/vendors/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Vendor registration",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/vendor.Profile"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/vendors/check-email": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Check whether an email can register",
                "parameters": [{"type": "string", "name": "email", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.IdentityResponse"}}}
            }
        },
        "/vendors/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Vendor login",
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/vendor.LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.TokenResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "403": {"description": "Account not approved", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Administrator login",
                "parameters": [{"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/vendor.LoginInput"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.TokenResponse"}}}
            }
        },
        "/vendor/draft": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["draft"],
                "summary": "Load the vendor's draft",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["draft"],
                "summary": "Save the vendor's draft",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["draft"],
                "summary": "Delete the vendor's draft",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.CountResponse"}}}
            }
        },
        "/vendor/submissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "List the vendor's submissions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "Submit a proposal",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/vendor/questions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["questions"],
                "summary": "Q&A threads of the vendor's submissions",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/questions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "All Q&A threads",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/vendors/{id}/approve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Approve a pending vendor",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Vendor already decided", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/admin/vendors/{id}/decline": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Decline a pending vendor",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Vendor already decided", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "response.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "response.CountResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "count": {"type": "integer"}}
        },
        "response.IdentityResponse": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "status": {"type": "string"}}
        },
        "response.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresAt": {"type": "string"},
                "role": {"type": "string"},
                "profile": {"type": "object"}
            }
        },
        "vendor.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "vendor.Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "companyName": {"type": "string"},
                "contactName": {"type": "string"},
                "email": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RFP Portal API",
	Description:      "Vendor registration, proposal submission and Q&A for RFP rounds.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
