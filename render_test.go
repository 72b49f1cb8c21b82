// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"strings"
	"testing"
)

func testTree() *Node {
	return &Node{
		Name: "trace", Start: 0, Duration: 1500,
		Children: []*Node{
			{
				Name: "parse", Start: 0, Duration: 1200,
				Children: []*Node{
					{Name: "tokenize", Start: 100, Duration: 800.5},
				},
			},
			{Name: "render", Start: 1300, Duration: 300},
		},
	}
}

func TestPrettyPrintTree(t *testing.T) {
	t.Parallel()

	result, err := runStage(t, PrettyPrint(nil), testTree())
	if err != nil {
		t.Fatal(err)
	}

	want := "trace (1500µs)\n" +
		"  parse (1200µs)\n" +
		"    tokenize (800.5µs)\n" +
		"  render (300µs)\n"
	if result != want {
		t.Errorf("PrettyPrint:\n%q\nwant:\n%q", result, want)
	}
}

func TestPrettyPrintCustomIndent(t *testing.T) {
	t.Parallel()

	result, err := runStage(t, PrettyPrint(Options{"indent": "\t"}), testTree())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.(string), "\tparse") {
		t.Errorf("expected tab indentation, got %q", result)
	}
}

func TestPrettyPrintFallsBackToJSON(t *testing.T) {
	t.Parallel()

	result, err := runStage(t, PrettyPrint(nil), map[string]any{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.(string), `"k": "v"`) {
		t.Errorf("expected indented JSON, got %q", result)
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	result, err := runStage(t, RenderHTML(Options{"title": "my trace"}), testTree())
	if err != nil {
		t.Fatal(err)
	}
	html := result.(string)

	for _, want := range []string{
		"<title>my trace</title>",
		"<h1>my trace</h1>",
		"<li>parse",
		"<li>tokenize",
		"<li>render",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}

	// Children nest inside their parent's list item.
	parse := strings.Index(html, "<li>parse")
	tokenize := strings.Index(html, "<li>tokenize")
	if parse < 0 || tokenize < parse {
		t.Error("tokenize should render inside parse")
	}
}

func TestRenderHTMLEscapesNames(t *testing.T) {
	t.Parallel()

	tree := &Node{Name: "<script>alert(1)</script>"}
	result, err := runStage(t, RenderHTML(nil), tree)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(result.(string), "<script>") {
		t.Error("node names must be HTML-escaped")
	}
}
