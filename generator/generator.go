// Package generator externalizes a selected string literal: it declares a
// new object.term in the module's literals declaration, stores the value in
// every language dictionary, and rewrites the selection to reference it.
//
// The generator never writes. It stages every change in a txn.Txn that the
// caller commits, diffs or discards.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/minios-linux/litgen/config"
	"github.com/minios-linux/litgen/declaration"
	"github.com/minios-linux/litgen/dictionary"
	"github.com/minios-linux/litgen/discovery"
	"github.com/minios-linux/litgen/i18n"
	"github.com/minios-linux/litgen/modpath"
	"github.com/minios-linux/litgen/selection"
	"github.com/minios-linux/litgen/termkey"
	"github.com/minios-linux/litgen/txn"
)

// ErrNoI18nPath is returned when the module has no declaration file.
var ErrNoI18nPath = errors.New("no i18n path found")

// Workspace gives access to the module files.
type Workspace interface {
	Find(module string) (*discovery.Files, error)
	ReadFile(path string) ([]byte, error)
}

// Prompter asks the user for the object.term key.
type Prompter interface {
	AskKey(ctx context.Context) (string, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Request describes one invocation.
type Request struct {
	// Path is the source file holding the selection.
	Path string
	// Source is the content of Path the selection refers to.
	Source []byte
	// Span is the selected byte range.
	Span selection.Span
	// Key is the object.term to use. Empty means prompt.
	Key string
	// SkipSource leaves the source edit out of the transaction, for
	// editors that apply Result.Edit themselves.
	SkipSource bool
}

// Result is a fully staged generation.
type Result struct {
	Ref          termkey.Ref
	Module       string
	Value        string
	Edit         selection.Edit
	Declaration  string
	Dictionaries []discovery.Dictionary
	// Txn holds every changed file. Nothing has been written yet.
	Txn *txn.Txn
}

// Generator ties the pieces together.
type Generator struct {
	cfg    *config.Config
	ws     Workspace
	prompt Prompter
	notify Notifier
}

// New returns a Generator. A nil cfg means config.Default().
func New(cfg *config.Config, ws Workspace, prompt Prompter, notify Notifier) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{cfg: cfg, ws: ws, prompt: prompt, notify: notify}
}

// Plan stages the declaration, dictionary and source changes for req.
// Every failure is reported through the Notifier before it is returned.
func (g *Generator) Plan(ctx context.Context, req Request) (*Result, error) {
	sel, err := selection.Analyze(req.Source, req.Span)
	if err != nil {
		if errors.Is(err, selection.ErrOutOfRange) {
			g.notify.Error(fmt.Sprintf(i18n.T("The selection %d-%d is outside the file"), req.Span.Start, req.Span.End))
		} else {
			g.notify.Error(fmt.Sprintf(i18n.T("Literals for: \"%s\" cannot be generated"), sel.Text))
		}
		return nil, err
	}
	g.notify.Info(fmt.Sprintf(i18n.T("Generating literals for: \"%s\"..."), sel.Value))

	ref, err := g.resolveKey(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	edit, err := selection.Rewrite(req.Source, sel, ref, g.cfg.AccessorPrefix)
	if err != nil {
		g.notify.Error(i18n.T("The selection is not enclosed in quotes; select the whole string literal"))
		return nil, err
	}

	module, err := modpath.Resolve(req.Path, g.cfg.Containers)
	if err != nil {
		g.notify.Error(i18n.T("No i18n path was found for this module/lib"))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := g.ws.Find(module)
	if err != nil {
		return nil, fmt.Errorf("searching files of module %s: %w", module, err)
	}
	if files.Declaration() == "" {
		g.notify.Error(i18n.T("No i18n path was found for this module/lib"))
		return nil, fmt.Errorf("%w: module %s has no %s", ErrNoI18nPath, module, g.cfg.DeclarationFile)
	}
	if len(files.Declarations) > 1 {
		g.notify.Warn(fmt.Sprintf(i18n.T("Several declaration files found, using %s"), files.Declaration()))
	}

	res := &Result{
		Ref:          ref,
		Module:       module,
		Value:        sel.Value,
		Edit:         edit,
		Declaration:  files.Declaration(),
		Dictionaries: files.Dictionaries,
		Txn:          txn.New(),
	}

	if err := g.stageDeclaration(res); err != nil {
		return nil, err
	}
	for _, d := range files.Dictionaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := g.stageDictionary(res, d); err != nil {
			return nil, err
		}
	}
	if !req.SkipSource {
		res.Txn.Stage(req.Path, req.Source, edit.Apply(req.Source))
	}
	return res, nil
}

func (g *Generator) resolveKey(ctx context.Context, key string) (termkey.Ref, error) {
	if key == "" && g.prompt != nil {
		var err error
		if key, err = g.prompt.AskKey(ctx); err != nil {
			return termkey.Ref{}, fmt.Errorf("reading key: %w", err)
		}
	}
	ref, err := termkey.Parse(key)
	if err != nil {
		g.notify.Error(fmt.Sprintf(i18n.T("Please inform the new object and term properties (i.e., %s)"), termkey.Example))
		return termkey.Ref{}, err
	}
	return ref, nil
}

func (g *Generator) stageDeclaration(res *Result) error {
	src, err := g.ws.ReadFile(res.Declaration)
	if err != nil {
		return fmt.Errorf("reading %s: %w", res.Declaration, err)
	}
	patched, err := declaration.Patch(src, res.Ref, g.cfg.DeclarationOptions())
	if err != nil {
		return fmt.Errorf("%s: %w", res.Declaration, err)
	}
	if !patched.Changed {
		g.notify.Info(fmt.Sprintf(i18n.T("%s is already declared in %s"), res.Ref, res.Declaration))
	}
	res.Txn.Stage(res.Declaration, src, patched.Content)
	return nil
}

func (g *Generator) stageDictionary(res *Result, d discovery.Dictionary) error {
	data, err := g.ws.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.Path, err)
	}

	switch old, slot := dictionary.Lookup(data, res.Ref); slot {
	case dictionary.SlotTerm:
		if old != res.Value {
			g.notify.Warn(fmt.Sprintf(i18n.T("%s already holds %q in %s; overwriting"), res.Ref, old, d.Path))
		}
	case dictionary.SlotConflict:
		g.notify.Warn(fmt.Sprintf(i18n.T("%s in %s is not an object and will be replaced"), res.Ref.Object, d.Path))
	}

	dict, err := dictionary.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Path, err)
	}
	dict.Merge(res.Ref, res.Value)
	dict.Sort()
	out, err := dict.Marshal(g.cfg.JSONIndent)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Path, err)
	}
	res.Txn.Stage(d.Path, data, out)
	return nil
}
