// Where: internal/scaffold/scaffold.go
// What: Render embedded templates into a new project directory.
// Why: Give init a one-shot way to lay down config and compose skeletons.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/tracekit-dev/agentbox/assets"
)

// Data feeds the scaffold templates.
type Data struct {
	Project string
	Image   string
}

// Files maps template names to the file they produce in the project dir.
var files = map[string]string{
	"agentbox.yml.tmpl":              "agentbox.yml",
	"docker-compose.jaeger.yml.tmpl": "docker-compose.jaeger.yml",
	"docker-compose.otel.yml.tmpl":   "docker-compose.otel.yml",
}

// Render produces the content of a single template.
func Render(name string, data Data) ([]byte, error) {
	payload, err := assets.TemplatesFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(string(payload))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteAll renders every scaffold file into projectDir. Existing files are
// preserved unless force is set. Returns the names of the files written.
func WriteAll(projectDir string, data Data, force bool) ([]string, error) {
	if data.Project == "" {
		data.Project = filepath.Base(projectDir)
	}

	var written []string
	for tmplName, fileName := range files {
		target := filepath.Join(projectDir, fileName)
		if !force {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}

		content, err := Render(tmplName, data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", fileName, err)
		}
		written = append(written, fileName)
	}

	sort.Strings(written)
	return written, nil
}
