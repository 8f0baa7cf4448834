package summarease

import (
	"io/fs"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOpenAPIDocumentCoversRoutes(t *testing.T) {
	var doc struct {
		OpenAPI string                    `yaml:"openapi"`
		Paths   map[string]map[string]any `yaml:"paths"`
	}
	if err := yaml.Unmarshal(OpenAPISpec, &doc); err != nil {
		t.Fatalf("openapi.yaml does not parse: %v", err)
	}
	if doc.OpenAPI == "" {
		t.Error("missing openapi version")
	}

	routes := map[string]string{
		"/api/upload-video":   "post",
		"/api/summarize-text": "post",
		"/api/generate-table": "post",
		"/api/health":         "get",
	}
	for path, method := range routes {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("path %s not documented", path)
			continue
		}
		if _, ok := ops[method]; !ok {
			t.Errorf("%s %s not documented", method, path)
		}
	}
}

func TestWebFilesHasIndex(t *testing.T) {
	web, err := fs.Sub(WebFiles, "web")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Stat(web, "index.html"); err != nil {
		t.Errorf("index.html missing: %v", err)
	}
}

func TestWebTableColumnsSpanAllRows(t *testing.T) {
	page, err := fs.ReadFile(WebFiles, "web/index.html")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(page), "Object.keys(rows[0])") {
		t.Error("table header must be built from the keys of every row, not only the first")
	}
	if !strings.Contains(string(page), "rows.forEach(r => Object.keys(r)") {
		t.Error("table renderer should collect keys across all rows")
	}
}
