package handlers

import (
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs
// ============================================================

// Docs serves an OpenAPI document and a Swagger UI page reading it.
type Docs struct {
	Title       string
	Document    []byte
	DocumentURL string
}

// Register mounts the page on path and the document on DocumentURL.
func (d Docs) Register(r fiber.Router, path string) {
	r.Get(path, d.UI)
	r.Get(d.DocumentURL, d.Spec)
}

// Spec serves the OpenAPI YAML.
func (d Docs) Spec(c fiber.Ctx) error {
	if len(d.Document) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "openapi document not found"})
	}
	c.Type("yaml")
	return c.Send(d.Document)
}

// UI serves the Swagger UI page, opened on the map routes with
// "try it out" enabled.
func (d Docs) UI(c fiber.Ctx) error {
	c.Type("html")
	return c.SendString(fmt.Sprintf(uiPage, html.EscapeString(d.Title), d.DocumentURL))
}

const uiPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      tryItOutEnabled: true,
      docExpansion: 'list',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`
