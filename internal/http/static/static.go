// Package static embeds the browser client served at "/".
package static

import "embed"

//go:embed index.html
var FS embed.FS
