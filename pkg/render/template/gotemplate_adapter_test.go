package template_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/formweave/formweave/pkg/render/template/gotemplate"
)

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	fsys := fstest.MapFS{
		"hello.tpl": &fstest.MapFile{Data: []byte("Hello {{ name }}!")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(fsys))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RequiresASource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var sb strings.Builder
	out, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &sb)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if out != "Hello Ada!" || sb.String() != out {
		t.Fatalf("out = %q, writer = %q", out, sb.String())
	}
}

func TestEngine_RenderStringAndGlobals(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{"app": "formweave"}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	out, err := engine.RenderString("{{ app }}:{{ who }}", map[string]any{"who": "tests"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "formweave:tests" {
		t.Fatalf("out = %q", out)
	}
}

func TestEngine_RenderDispatch(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.Render("{{ name }}", map[string]any{"name": "inline"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "inline" {
		t.Fatalf("out = %q", out)
	}
}
