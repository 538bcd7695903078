package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "ProdSmart API Documentation",
        "title": "ProdSmart API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign Up",
                "description": "Create an account with email, name and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {
                        "description": "Account created, token returned"
                    },
                    "409": {
                        "description": "Email already exists"
                    }
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User Login",
                "description": "Login with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Token returned"
                    },
                    "401": {
                        "description": "Invalid password"
                    },
                    "404": {
                        "description": "User not found"
                    }
                }
            }
        },
        "/api/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List Tasks",
                "description": "Tasks for the authenticated user, newest first",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Task array"
                    }
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create Task",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {
                        "description": "Created task"
                    }
                }
            }
        },
        "/api/dashboard/calendar": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Month Grid",
                "description": "Monday-first month grid with busy-day flags",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Calendar grid"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "ProdSmart API",
	Description:      "ProdSmart API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
