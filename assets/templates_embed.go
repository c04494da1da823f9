// Where: assets/templates_embed.go
// What: Embed scaffold templates for the init command.
// Why: Ship config and compose skeletons inside the binary.
package assets

import "embed"

//go:embed templates/*.tmpl
var TemplatesFS embed.FS
