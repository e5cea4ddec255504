package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/minios-linux/litgen/config"
	"github.com/minios-linux/litgen/discovery"
	"github.com/minios-linux/litgen/modpath"
	"github.com/minios-linux/litgen/selection"
	"github.com/minios-linux/litgen/termkey"
)

type recorder struct {
	infos, warns, errs []string
}

func (r *recorder) Info(msg string)  { r.infos = append(r.infos, msg) }
func (r *recorder) Warn(msg string)  { r.warns = append(r.warns, msg) }
func (r *recorder) Error(msg string) { r.errs = append(r.errs, msg) }

type fixedKey string

func (k fixedKey) AskKey(context.Context) (string, error) { return string(k), nil }

const emptyDecl = "export class Literals {\n}\n"

type fixture struct {
	root   string
	src    string
	notify *recorder
	gen    *Generator
}

func newFixture(t *testing.T, key string, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	finder, err := discovery.New(root, discovery.Options{})
	if err != nil {
		t.Fatalf("discovery.New: %v", err)
	}
	f := &fixture{
		root:   root,
		src:    filepath.Join(root, "modules", "billing", "src", "x.ts"),
		notify: &recorder{},
	}
	f.gen = New(config.Default(), NewDiskWorkspace(finder), fixedKey(key), f.notify)
	return f
}

func (f *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func (f *fixture) request(t *testing.T, selected string) Request {
	t.Helper()
	data, err := os.ReadFile(f.src)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	i := strings.Index(string(data), selected)
	if i < 0 {
		t.Fatalf("%q not in source", selected)
	}
	return Request{Path: f.src, Source: data, Span: selection.Span{Start: i, End: i + len(selected)}}
}

func TestGenerateEndToEnd(t *testing.T) {
	f := newFixture(t, "geral.dataHora", map[string]string{
		"modules/billing/src/x.ts":         "const label = 'Data e Hora';\n",
		"modules/billing/i18n/literals.ts": emptyDecl,
		"modules/billing/i18n/en.json":     "{}",
		"modules/billing/i18n/es.json":     "{}",
		"modules/billing/i18n/pt.json":     "{}",
		"modules/other/i18n/literals.ts":   emptyDecl,
		"node_modules/billing/literals.ts": emptyDecl,
		"modules/billing/i18n/fr.json":     "{}",
	})

	res, err := f.gen.Plan(context.Background(), f.request(t, "Data e Hora"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.Module != "billing" || res.Ref != (termkey.Ref{Object: "geral", Term: "dataHora"}) || res.Value != "Data e Hora" {
		t.Fatalf("Plan result = %+v", res)
	}
	if res.Txn.Len() != 5 {
		t.Fatalf("staged %d files, want 5: %v", res.Txn.Len(), res.Txn.Paths())
	}
	if err := res.Txn.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	wantDict := "{\n  \"geral\": {\n    \"dataHora\": \"Data e Hora\"\n  }\n}"
	for _, lang := range []string{"en", "es", "pt"} {
		if got := f.read(t, "modules/billing/i18n/"+lang+".json"); got != wantDict {
			t.Fatalf("%s.json = %q, want %q", lang, got, wantDict)
		}
	}
	if got := f.read(t, "modules/billing/i18n/fr.json"); got != "{}" {
		t.Fatalf("fr.json touched: %q", got)
	}

	wantDecl := "export class Literals {\n    geral!: {\n        dataHora: any;\n    };\n}\n"
	if got := f.read(t, "modules/billing/i18n/literals.ts"); got != wantDecl {
		t.Fatalf("literals.ts = %q, want %q", got, wantDecl)
	}
	if got := f.read(t, "modules/other/i18n/literals.ts"); got != emptyDecl {
		t.Fatalf("other module touched: %q", got)
	}

	if got := f.read(t, "modules/billing/src/x.ts"); got != "const label = this.i18n.geral.dataHora;\n" {
		t.Fatalf("x.ts = %q", got)
	}
	if len(f.notify.infos) == 0 || !strings.Contains(f.notify.infos[0], `"Data e Hora"`) {
		t.Fatalf("start notification missing: %v", f.notify.infos)
	}
	if len(f.notify.errs) != 0 {
		t.Fatalf("unexpected errors: %v", f.notify.errs)
	}
}

func TestGenerateExistingGroupAndOverwrite(t *testing.T) {
	f := newFixture(t, "geral.dataHora", map[string]string{
		"modules/billing/src/x.ts":         `label = "Data e Hora";`,
		"modules/billing/i18n/literals.ts": "export class Literals {\n    geral!: {\n        outro: any;\n    };\n}\n",
		"modules/billing/i18n/pt.json":     "{\n  \"geral\": {\n    \"outro\": \"y\",\n    \"dataHora\": \"velho\"\n  }\n}\n",
	})

	res, err := f.gen.Plan(context.Background(), f.request(t, `"Data e Hora"`))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := res.Txn.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	want := "{\n  \"geral\": {\n    \"dataHora\": \"Data e Hora\",\n    \"outro\": \"y\"\n  }\n}\n"
	if got := f.read(t, "modules/billing/i18n/pt.json"); got != want {
		t.Fatalf("pt.json = %q, want %q", got, want)
	}
	if got := f.read(t, "modules/billing/src/x.ts"); got != "label = this.i18n.geral.dataHora;" {
		t.Fatalf("x.ts = %q", got)
	}
	if len(f.notify.warns) != 1 || !strings.Contains(f.notify.warns[0], "velho") {
		t.Fatalf("warnings = %v, want one overwrite warning", f.notify.warns)
	}
}

func TestGenerateSkipSource(t *testing.T) {
	f := newFixture(t, "geral.titulo", map[string]string{
		"modules/billing/src/x.ts":         "title = 'Faturas';",
		"modules/billing/i18n/literals.ts": emptyDecl,
	})

	req := f.request(t, "'Faturas'")
	req.SkipSource = true
	res, err := f.gen.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, p := range res.Txn.Paths() {
		if p == f.src {
			t.Fatal("source staged despite SkipSource")
		}
	}
	if res.Edit.NewText != "this.i18n.geral.titulo" || res.Edit.Span != req.Span {
		t.Fatalf("Edit = %+v", res.Edit)
	}
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		files    map[string]string
		srcPath  string
		selected string
		wantErr  error
	}{
		{
			name:     "invalid key",
			key:      "geral",
			files:    map[string]string{"modules/billing/src/x.ts": "a = 'x';", "modules/billing/literals.ts": emptyDecl},
			selected: "x",
			wantErr:  termkey.ErrInvalidKeyFormat,
		},
		{
			name:     "empty selection",
			key:      "geral.x",
			files:    map[string]string{"modules/billing/src/x.ts": "a = '';", "modules/billing/literals.ts": emptyDecl},
			selected: "''",
			wantErr:  selection.ErrEmptySelection,
		},
		{
			name:     "unquoted selection",
			key:      "geral.x",
			files:    map[string]string{"modules/billing/src/x.ts": "<p>Olá</p>", "modules/billing/literals.ts": emptyDecl},
			selected: "Olá",
			wantErr:  selection.ErrUnquotedSelection,
		},
		{
			name:     "no module",
			key:      "geral.x",
			files:    map[string]string{"src/x.ts": "a = 'x';"},
			srcPath:  "src/x.ts",
			selected: "'x'",
			wantErr:  modpath.ErrModuleNotFound,
		},
		{
			name:     "no declaration",
			key:      "geral.x",
			files:    map[string]string{"modules/billing/src/x.ts": "a = 'x';", "modules/billing/en.json": "{}"},
			selected: "'x'",
			wantErr:  ErrNoI18nPath,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.key, tc.files)
			if tc.srcPath != "" {
				f.src = filepath.Join(f.root, filepath.FromSlash(tc.srcPath))
			}
			_, err := f.gen.Plan(context.Background(), f.request(t, tc.selected))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Plan error = %v, want %v", err, tc.wantErr)
			}
			if len(f.notify.errs) != 1 {
				t.Fatalf("error notifications = %v, want exactly one", f.notify.errs)
			}
			for name, content := range tc.files {
				if got := f.read(t, name); got != content {
					t.Fatalf("%s modified: %q", name, got)
				}
			}
		})
	}
}

func TestGenerateSelectionOutsideFile(t *testing.T) {
	f := newFixture(t, "geral.x", map[string]string{
		"modules/billing/src/x.ts":    "a = 'x';",
		"modules/billing/literals.ts": emptyDecl,
	})
	req := f.request(t, "'x'")
	req.Span = selection.Span{Start: 4, End: 40}

	if _, err := f.gen.Plan(context.Background(), req); !errors.Is(err, selection.ErrOutOfRange) {
		t.Fatalf("Plan error = %v, want ErrOutOfRange", err)
	}
	if len(f.notify.errs) != 1 || !strings.Contains(f.notify.errs[0], "4-40") {
		t.Fatalf("error notifications = %v, want one naming 4-40", f.notify.errs)
	}
	if strings.Contains(f.notify.errs[0], `""`) {
		t.Fatalf("notification shows an empty literal: %q", f.notify.errs[0])
	}
}

func TestPlanCancelled(t *testing.T) {
	f := newFixture(t, "geral.x", map[string]string{
		"modules/billing/src/x.ts":    "a = 'x';",
		"modules/billing/literals.ts": emptyDecl,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.gen.Plan(ctx, f.request(t, "'x'")); !errors.Is(err, context.Canceled) {
		t.Fatalf("Plan error = %v, want context.Canceled", err)
	}
}

func TestNormalizeLookupInspect(t *testing.T) {
	f := newFixture(t, "", map[string]string{
		"modules/billing/literals.ts": "export class Literals {\n    geral!: {\n        a: any;\n        b: any;\n    };\n}\n",
		"modules/billing/en.json":     `{"geral": {"b": "B", "a": "A"}}`,
		"modules/billing/pt.json":     "{\n  \"geral\": {\n    \"a\": \"Á\"\n  }\n}",
	})

	st, err := f.gen.Inspect("billing")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if diff := cmp.Diff([]GroupStatus{{Name: "geral", Terms: []string{"a", "b"}}}, st.Groups); diff != "" {
		t.Fatalf("groups (-want +got):\n%s", diff)
	}
	if len(st.Dictionaries) != 2 {
		t.Fatalf("dictionaries = %d, want 2", len(st.Dictionaries))
	}
	en, pt := st.Dictionaries[0], st.Dictionaries[1]
	if en.Lang != "en" || en.Sorted || en.Terms != 2 || len(en.Missing) != 0 {
		t.Fatalf("en status = %+v", en)
	}
	if pt.Lang != "pt" || !pt.Sorted || pt.Language.English != "Portuguese" {
		t.Fatalf("pt status = %+v", pt)
	}
	if diff := cmp.Diff([]string{"geral.b"}, pt.Missing); diff != "" {
		t.Fatalf("pt missing (-want +got):\n%s", diff)
	}

	got, err := f.gen.Lookup("billing", termkey.Ref{Object: "geral", Term: "b"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := []Translation{
		{Lang: "en", Path: filepath.Join(f.root, "modules", "billing", "en.json"), Value: "B", Found: true},
		{Lang: "pt", Path: filepath.Join(f.root, "modules", "billing", "pt.json")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Lookup (-want +got):\n%s", diff)
	}

	tx, err := f.gen.Normalize(context.Background(), "billing")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tx.Len() != 1 {
		t.Fatalf("Normalize staged %v, want only en.json", tx.Paths())
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := f.read(t, "modules/billing/en.json"); got != "{\n  \"geral\": {\n    \"a\": \"A\",\n    \"b\": \"B\"\n  }\n}" {
		t.Fatalf("en.json = %q", got)
	}
}
