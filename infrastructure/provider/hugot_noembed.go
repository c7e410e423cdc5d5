//go:build !embed_model

package provider

import "embed"

// embeddedModelFS is empty without the embed_model build tag; the guard on
// hasEmbeddedModel keeps it from ever being read.
var embeddedModelFS embed.FS

const hasEmbeddedModel = false
