package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portal service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portal-services API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

var swaggerJSON = gin.H{
	"openapi": "3.0.0",
	"info": gin.H{
		"title":   "portal-services API",
		"version": "1.0.0",
	},
	"paths": gin.H{
		"/api/contact": gin.H{
			"post": gin.H{"summary": "Submit a contact-form inquiry (creates a lead)"},
		},
		"/api/leads": gin.H{
			"get": gin.H{"summary": "List leads, optionally filtered by ?status="},
		},
		"/api/leads/{id}": gin.H{
			"get":    gin.H{"summary": "Get a lead by id"},
			"delete": gin.H{"summary": "Delete a lead"},
		},
		"/api/leads/{id}/status": gin.H{
			"patch": gin.H{"summary": "Update a lead's pipeline status and notes"},
		},
		"/api/leads/{id}/assign": gin.H{
			"post": gin.H{"summary": "Assign a lead to an operator"},
		},
		"/api/leads/{id}/convert": gin.H{
			"post": gin.H{"summary": "Mark a lead converted and provision a client profile"},
		},
		"/api/clients/{id}/messages": gin.H{
			"get":  gin.H{"summary": "List a client's messages, newest first"},
			"post": gin.H{"summary": "Send an in-app message"},
		},
		"/api/clients/{id}/messages/stream": gin.H{
			"get": gin.H{"summary": "SSE stream of full message-set snapshots"},
		},
		"/api/clients/{id}/messages/unread-count": gin.H{
			"get": gin.H{"summary": "Count of unread messages"},
		},
		"/api/messages/{id}/read": gin.H{
			"post": gin.H{"summary": "Mark a message read (idempotent)"},
		},
		"/api/clients/{id}/notifications": gin.H{
			"get": gin.H{"summary": "List a client's system notifications"},
		},
		"/api/clients/{id}/notifications/email": gin.H{
			"post": gin.H{"summary": "Record a pending outbound email notification"},
		},
		"/api/clients/{id}/notifications/sms": gin.H{
			"post": gin.H{"summary": "Record a pending outbound SMS alert"},
		},
		"/api/clients/{id}/notifications/system": gin.H{
			"post": gin.H{"summary": "Send an in-app system notification"},
		},
		"/api/notifications/{id}/read": gin.H{
			"post": gin.H{"summary": "Mark a system notification read (idempotent)"},
		},
		"/auth/login":   gin.H{"post": gin.H{"summary": "Exchange an SSO ID token for portal tokens"}},
		"/auth/refresh": gin.H{"post": gin.H{"summary": "Exchange a refresh token for a new access token"}},
		"/auth/logout":  gin.H{"post": gin.H{"summary": "Delete the refresh session and revoke the access token"}},
		"/health":       gin.H{"get": gin.H{"summary": "Liveness probe"}},
		"/ready":        gin.H{"get": gin.H{"summary": "Readiness probe"}},
		"/metrics":      gin.H{"get": gin.H{"summary": "Prometheus metrics"}},
	},
}
