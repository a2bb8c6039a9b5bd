package api

import (
	"html/template"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/marmos91/sandboxfs/internal/logger"
)

// APIDoc is a Swagger 2.0 document.
type APIDoc struct {
	Swagger  string                          `json:"swagger"`
	Info     DocInfo                         `json:"info"`
	BasePath string                          `json:"basePath"`
	Consumes []string                        `json:"consumes"`
	Produces []string                        `json:"produces"`
	Paths    map[string]map[string]Operation `json:"paths"`
}

// DocInfo is the Swagger info object.
type DocInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// Operation is a Swagger operation object.
type Operation struct {
	OperationID string                 `json:"operationId"`
	Summary     string                 `json:"summary"`
	Tags        []string               `json:"tags,omitempty"`
	Parameters  []DocParameter         `json:"parameters,omitempty"`
	Responses   map[string]DocResponse `json:"responses"`
}

// DocParameter is a Swagger parameter object (path or body).
type DocParameter struct {
	Name        string             `json:"name"`
	In          string             `json:"in"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required"`
	Type        string             `json:"type,omitempty"`
	Schema      *jsonschema.Schema `json:"schema,omitempty"`
}

// DocResponse is a Swagger response object.
type DocResponse struct {
	Description string             `json:"description"`
	Schema      *jsonschema.Schema `json:"schema,omitempty"`
}

// BuildAPIDoc renders routes into a Swagger 2.0 document. Body schemas are
// reflected from the Go types in the route table.
func BuildAPIDoc(routes []Route, version string) *APIDoc {
	doc := &APIDoc{
		Swagger: "2.0",
		Info: DocInfo{
			Title:       "SandboxFS File Manager API",
			Description: "List, read, create, update and delete text files in a sandboxed directory.",
			Version:     version,
		},
		BasePath: "/",
		Consumes: []string{"application/json"},
		Produces: []string{"application/json"},
		Paths:    make(map[string]map[string]Operation),
	}

	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}

	for _, rt := range routes {
		op := Operation{
			OperationID: rt.OperationID,
			Summary:     rt.Summary,
			Responses:   make(map[string]DocResponse, len(rt.Responses)),
		}
		if rt.Tag != "" {
			op.Tags = []string{rt.Tag}
		}

		for _, p := range rt.Params {
			op.Parameters = append(op.Parameters, DocParameter{
				Name:        p.Name,
				In:          "path",
				Description: p.Description,
				Required:    true,
				Type:        "string",
			})
		}
		if rt.Request != nil {
			op.Parameters = append(op.Parameters, DocParameter{
				Name:     "body",
				In:       "body",
				Required: true,
				Schema:   schemaFor(reflector, rt.Request),
			})
		}

		for status, resp := range rt.Responses {
			dr := DocResponse{Description: resp.Description}
			if resp.Body != nil {
				dr.Schema = schemaFor(reflector, resp.Body)
			}
			op.Responses[strconv.Itoa(status)] = dr
		}

		if doc.Paths[rt.Pattern] == nil {
			doc.Paths[rt.Pattern] = make(map[string]Operation)
		}
		doc.Paths[rt.Pattern][strings.ToLower(rt.Method)] = op
	}

	return doc
}

// schemaFor reflects v into an inline schema suitable for embedding.
func schemaFor(reflector *jsonschema.Reflector, v any) *jsonschema.Schema {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String {
		return &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string"}}
	}

	schema := reflector.Reflect(v)
	// Embedded schemas must not carry their own dialect or id.
	schema.Version = ""
	schema.ID = ""
	return schema
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Info.Title}}</title>
    <style>
        body { font-family: sans-serif; max-width: 900px; margin: 50px auto; padding: 20px; }
        table { border-collapse: collapse; width: 100%; }
        td, th { border-bottom: 1px solid #ddd; padding: 8px; text-align: left; }
        code { background: #f0f0f0; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1>{{.Info.Title}} <small>{{.Info.Version}}</small></h1>
    <p>{{.Info.Description}}</p>
    <p>Machine-readable document: <a href="/apispec.json">/apispec.json</a></p>
    <table>
        <tr><th>Method</th><th>Path</th><th>Summary</th><th>Statuses</th></tr>
        {{range .Rows}}<tr><td><code>{{.Method}}</code></td><td><code>{{.Path}}</code></td><td>{{.Summary}}</td><td>{{.Statuses}}</td></tr>
        {{end}}
    </table>
</body>
</html>
`))

type docsRow struct {
	Method   string
	Path     string
	Summary  string
	Statuses string
}

// docsHandlers serves /apispec.json and /docs from a document built once.
type docsHandlers struct {
	routes  []Route
	version string

	once sync.Once
	doc  *APIDoc
}

func (d *docsHandlers) get() *APIDoc {
	d.once.Do(func() {
		d.doc = BuildAPIDoc(d.routes, d.version)
	})
	return d.doc
}

func (d *docsHandlers) handleSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.get())
}

func (d *docsHandlers) handleDocs(w http.ResponseWriter, r *http.Request) {
	rows := make([]docsRow, 0, len(d.routes))
	for _, rt := range d.routes {
		statuses := make([]int, 0, len(rt.Responses))
		for status := range rt.Responses {
			statuses = append(statuses, status)
		}
		sort.Ints(statuses)

		parts := make([]string, len(statuses))
		for i, s := range statuses {
			parts[i] = strconv.Itoa(s)
		}

		rows = append(rows, docsRow{
			Method:   rt.Method,
			Path:     rt.Pattern,
			Summary:  rt.Summary,
			Statuses: strings.Join(parts, ", "),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := docsTemplate.Execute(w, struct {
		Info DocInfo
		Rows []docsRow
	}{Info: d.get().Info, Rows: rows})
	if err != nil {
		logger.Warn("Failed to render docs page: %v", err)
	}
}
