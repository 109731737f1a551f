package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"forestwatch-sim/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

// Data is passed to every dashboard template.
type Data struct {
	Table string
}

// Render executes the embedded Grafana dashboard templates and writes the
// results to outDir. Templates read the datasource UID through {{env "..."}},
// which fails when the variable is unset.
func Render(outDir string) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	names, err := templates.ReadDir("templates")
	if err != nil {
		return err
	}
	data := Data{Table: telemetry.NodeTableName}
	for _, entry := range names {
		name := entry.Name()
		t, err := template.New(name).Funcs(funcMap).ParseFS(templates, "templates/"+name)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		var b strings.Builder
		if err := t.Execute(&b, data); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
			return err
		}
	}
	return nil
}
