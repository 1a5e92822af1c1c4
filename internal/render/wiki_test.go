package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
	"github.com/NielsdaWheelz/releasewarrior/internal/lifecycle"
	"github.com/NielsdaWheelz/releasewarrior/internal/scaffold"
)

type namer string

func (n namer) WikiTemplate(id core.Identity) string {
	if n != "" {
		return string(n)
	}
	return id.Branch + "_wiki.md.tmpl"
}

func testState() lifecycle.State {
	s := lifecycle.State{Version: "60.0b3", Date: "2024-01-15"}
	s = lifecycle.AddPrerequisite(s, lifecycle.Prerequisite{Bug: "1234567", Description: "update changelog", Deadline: "2024-02-01"})
	s = lifecycle.AddPrerequisite(s, lifecycle.Prerequisite{Bug: lifecycle.NoBug, Description: "notify <partners>", Deadline: "2024-02-02"})
	s = lifecycle.ResolvePrerequisites(s, []int{1})
	s, _, _ = lifecycle.StartBuild(s, []string{"G1"})
	s.Inflight[0].HumanTasks = append(s.Inflight[0].HumanTasks, lifecycle.Prerequisite{Bug: lifecycle.NoBug, Description: "publish", Deadline: "2024-02-03"})
	s.Inflight[0].Issues = append(s.Inflight[0].Issues, "bad signing")
	s, _, _ = lifecycle.StartBuild(s, []string{"G2", "G3"})
	return s
}

func testIdentity(t *testing.T) core.Identity {
	t.Helper()
	id, err := core.NewIdentity(core.Firefox, "60.0b3", "")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestRender_BuiltinTemplate(t *testing.T) {
	data, err := lifecycle.Encode(testState())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(scaffold.Source{}, namer(""))

	got, err := r.Render(testIdentity(t), data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"# Beta 60.0b3",
		"Go to build: 2024-01-15",
		"1. [x] update changelog (bug: 1234567, deadline: 2024-02-01)",
		"2. [ ] notify <partners> (bug: no bug, deadline: 2024-02-02)",
		"### Build 1 (aborted)",
		"Graph ids: G1",
		"- bad signing",
		"### Build 2\n",
		"Graph ids: G2, G3",
		"1. [ ] publish (bug: no bug, deadline: 2024-02-03)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered wiki missing %q:\n%s", want, got)
		}
	}
}

func TestRender_NoBuilds(t *testing.T) {
	data, err := lifecycle.Encode(lifecycle.State{Version: "60.0", Date: "2024-01-15"})
	if err != nil {
		t.Fatal(err)
	}
	id, _ := core.NewIdentity(core.Firefox, "60.0", "")
	got, err := NewRenderer(scaffold.Source{}, namer("")).Render(id, data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "# Release 60.0") || !strings.Contains(got, "No builds started.") {
		t.Errorf("unexpected wiki:\n%s", got)
	}
}

func TestRender_RoundTripThroughStore(t *testing.T) {
	r := NewRenderer(scaffold.Source{}, namer(""))
	id := testIdentity(t)

	first, err := lifecycle.Encode(testState())
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := lifecycle.Decode(first)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	second, err := lifecycle.Encode(loaded)
	if err != nil {
		t.Fatal(err)
	}

	want, err := r.Render(id, first)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Render(id, second)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("render changed after reload:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("missing.md.tmpl", "{{ .version }} {{ .codename }}\n")
	write("broken.md.tmpl", "{{ .version \n")
	src := scaffold.Source{FS: fs.NewRealFS(), Dir: dir}
	data := []byte(`{"version": "60.0b3", "date": "2024-01-15"}`)

	tests := []struct {
		name     string
		template string
		data     []byte
		want     errors.Code
	}{
		{"missing key", "missing.md.tmpl", data, errors.ERenderFailed},
		{"parse error", "broken.md.tmpl", data, errors.ERenderFailed},
		{"not an object", "missing.md.tmpl", []byte(`[1, 2]`), errors.ERenderFailed},
		{"no template", "absent.md.tmpl", data, errors.ETemplateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(src, namer(tt.template)).Render(testIdentity(t), tt.data)
			if got := errors.GetCode(err); got != tt.want {
				t.Fatalf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
			e, _ := errors.AsError(err)
			if e.Details["release"] != "firefox-beta-60.0b3" {
				t.Errorf("details = %v", e.Details)
			}
		})
	}
}
