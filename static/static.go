// Package static embeds the API documentation assets served under
// /static and /docs.
package static

import "embed"

//go:embed openapi.json openapi.html
var FS embed.FS
