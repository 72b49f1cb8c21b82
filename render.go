// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// PrettyPrint returns a stage that renders structured data as
// human-readable text.
//
// A [*Node] call tree is rendered as an indented tree, one slice per
// line with its duration:
//
//	trace (1.5ms)
//	  parse (1.2ms)
//	    tokenize (800µs)
//	  render (300µs)
//
// Any other structured value is rendered as indented JSON.
//
// Options: "indent", the per-level indent string (default two spaces).
func PrettyPrint(opts Options) Stage {
	merged := override(Options{"indent": "  "}, opts)
	indent := stringOption(merged, "indent")

	return StageFunc("pretty", Data, Text, func(_ context.Context, v any) (any, error) {
		if node, ok := v.(*Node); ok {
			var b strings.Builder
			writeNode(&b, node, 0, indent)
			return b.String(), nil
		}
		data, err := json.MarshalIndent(v, "", indent)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		return string(data) + "\n", nil
	})
}

func writeNode(b *strings.Builder, node *Node, depth int, indent string) {
	for i := 0; i < depth; i++ {
		b.WriteString(indent)
	}
	fmt.Fprintf(b, "%s (%sµs)\n", node.Name, trimFloat(node.Duration))
	for _, child := range node.Children {
		writeNode(b, child, depth+1, indent)
	}
}

// trimFloat formats a duration without trailing zero decimals.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.3f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// treePage is the HTML document fabricated by RenderHTML: a nested-list
// view of the call tree.
var treePage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{template "node" .Root}}</ul>
</body>
</html>
{{define "node"}}<li>{{.Name}} <span class="duration">{{.Duration}}&micro;s</span>{{if .Children}}
<ul>
{{range .Children}}{{template "node" .}}{{end}}</ul>
{{end}}</li>
{{end}}`))

// RenderHTML returns a stage that fabricates an HTML document from a
// [*Node] call tree, rendering it as nested lists.
//
// Options: "title", the document title (default "trace").
func RenderHTML(opts Options) Stage {
	merged := override(Options{"title": "trace"}, opts)
	title := stringOption(merged, "title")

	return TypedStage("render: html", Data, Text, func(_ context.Context, root *Node) (string, error) {
		var b strings.Builder
		err := treePage.Execute(&b, struct {
			Title string
			Root  *Node
		}{Title: title, Root: root})
		if err != nil {
			return "", fmt.Errorf("render: %w", err)
		}
		return b.String(), nil
	})
}
