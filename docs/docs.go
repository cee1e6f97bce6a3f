// Package docs holds the OpenAPI document served by the Swagger UI. The
// template is maintained by hand and registered through swag so the
// gofiber/swagger handler can pick it up.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "healthy"},
                    "503": {"description": "dependency unavailable"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "summary": "Register an email/password user",
                "responses": {
                    "201": {"description": "created"},
                    "400": {"description": "validation error"},
                    "409": {"description": "email taken"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Log in with email and password",
                "responses": {
                    "200": {"description": "session token"},
                    "401": {"description": "invalid credentials"}
                }
            }
        },
        "/auth/{provider}/login": {
            "get": {
                "summary": "Start an OAuth sign-in",
                "responses": {
                    "302": {"description": "redirect to provider"},
                    "404": {"description": "unknown provider"}
                }
            }
        },
        "/auth/{provider}/callback": {
            "get": {
                "summary": "Finish an OAuth round-trip",
                "responses": {
                    "200": {"description": "one-time login code"},
                    "401": {"description": "authentication failed"},
                    "409": {"description": "account linked elsewhere"}
                }
            }
        },
        "/auth/code": {
            "post": {
                "summary": "Redeem a one-time login code",
                "responses": {
                    "200": {"description": "session token"},
                    "401": {"description": "invalid or expired code"}
                }
            }
        },
        "/me": {
            "get": {
                "summary": "Authenticated user's profile",
                "responses": {
                    "200": {"description": "profile with linked accounts"},
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/communities": {
            "get": {
                "summary": "List communities",
                "responses": {"200": {"description": "paginated communities"}}
            },
            "post": {
                "summary": "Create a community",
                "responses": {
                    "201": {"description": "created"},
                    "403": {"description": "subscription required"},
                    "409": {"description": "slug taken"}
                }
            }
        },
        "/communities/{id}/events": {
            "get": {
                "summary": "List a community's events",
                "responses": {"200": {"description": "paginated events"}}
            },
            "post": {
                "summary": "Create an event",
                "responses": {
                    "201": {"description": "created"},
                    "403": {"description": "admin role or subscription required"}
                }
            }
        },
        "/subscription/checkout": {
            "post": {
                "summary": "Pay for a subscription",
                "responses": {
                    "201": {"description": "subscription and transaction"},
                    "400": {"description": "validation error"}
                }
            }
        },
        "/subscription/payments": {
            "get": {
                "summary": "Payment history",
                "responses": {
                    "200": {"description": "paginated payment records"},
                    "401": {"description": "unauthorized"}
                }
            }
        },
        "/subscription/requests": {
            "post": {
                "summary": "Request a complimentary subscription",
                "responses": {
                    "201": {"description": "request filed"},
                    "403": {"description": "not eligible"},
                    "409": {"description": "pending request exists"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "EventFlow API",
	Description:      "Communities, events and subscriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
