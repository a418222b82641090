// Package spec embeds the OpenAPI document for the Trackday API.
// The handler package serves it verbatim at /openapi.yaml.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
