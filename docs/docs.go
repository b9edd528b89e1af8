// Package docs carries the OpenAPI document of the map API.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
