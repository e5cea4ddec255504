package generator

import (
	"context"
	"fmt"
	"sort"

	"github.com/minios-linux/litgen/declaration"
	"github.com/minios-linux/litgen/dictionary"
	"github.com/minios-linux/litgen/discovery"
	"github.com/minios-linux/litgen/langmeta"
	"github.com/minios-linux/litgen/termkey"
	"github.com/minios-linux/litgen/txn"
)

// Normalize stages a key-sorted rewrite of every dictionary in module.
// Dictionaries that are already normalized are left out.
func (g *Generator) Normalize(ctx context.Context, module string) (*txn.Txn, error) {
	files, err := g.ws.Find(module)
	if err != nil {
		return nil, fmt.Errorf("searching files of module %s: %w", module, err)
	}
	tx := txn.New()
	for _, d := range files.Dictionaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := g.ws.ReadFile(d.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", d.Path, err)
		}
		dict, err := dictionary.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Path, err)
		}
		dict.Sort()
		out, err := dict.Marshal(g.cfg.JSONIndent)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Path, err)
		}
		tx.Stage(d.Path, data, out)
	}
	return tx, nil
}

// Translation is one dictionary's value for a term.
type Translation struct {
	Lang  string
	Path  string
	Value string
	Found bool
}

// Lookup reads ref from every dictionary of module.
func (g *Generator) Lookup(module string, ref termkey.Ref) ([]Translation, error) {
	files, err := g.ws.Find(module)
	if err != nil {
		return nil, fmt.Errorf("searching files of module %s: %w", module, err)
	}
	if len(files.Dictionaries) == 0 {
		return nil, fmt.Errorf("%w: module %s has no dictionaries", ErrNoI18nPath, module)
	}
	out := make([]Translation, 0, len(files.Dictionaries))
	for _, d := range files.Dictionaries {
		data, err := g.ws.ReadFile(d.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", d.Path, err)
		}
		value, slot := dictionary.Lookup(data, ref)
		out = append(out, Translation{Lang: d.Lang, Path: d.Path, Value: value, Found: slot == dictionary.SlotTerm})
	}
	return out, nil
}

// DictionaryStatus summarizes one dictionary file.
type DictionaryStatus struct {
	discovery.Dictionary
	Language langmeta.Meta
	Terms    int
	Sorted   bool
	// Missing lists declared object.term keys absent from the file.
	Missing []string
}

// GroupStatus summarizes one declared group.
type GroupStatus struct {
	Name  string
	Terms []string
}

// Status is the state of a module's i18n files.
type Status struct {
	Module       string
	Declaration  string
	Groups       []GroupStatus
	Dictionaries []DictionaryStatus
}

// Inspect reports the declared groups of module and how each dictionary
// covers them.
func (g *Generator) Inspect(module string) (*Status, error) {
	files, err := g.ws.Find(module)
	if err != nil {
		return nil, fmt.Errorf("searching files of module %s: %w", module, err)
	}
	if files.Declaration() == "" {
		return nil, fmt.Errorf("%w: module %s has no %s", ErrNoI18nPath, module, g.cfg.DeclarationFile)
	}

	st := &Status{Module: module, Declaration: files.Declaration()}
	src, err := g.ws.ReadFile(st.Declaration)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", st.Declaration, err)
	}
	decl, err := declaration.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", st.Declaration, err)
	}
	for _, grp := range decl.Body.Groups {
		gs := GroupStatus{Name: grp.Name}
		for _, p := range grp.Properties {
			gs.Terms = append(gs.Terms, p.Name)
		}
		st.Groups = append(st.Groups, gs)
	}

	for _, d := range files.Dictionaries {
		data, err := g.ws.ReadFile(d.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", d.Path, err)
		}
		dict, err := dictionary.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Path, err)
		}
		ds := DictionaryStatus{Dictionary: d, Language: langmeta.Resolve(d.Lang)}
		for _, obj := range dict.Objects() {
			terms, _ := dict.Terms(obj)
			ds.Terms += len(terms)
		}
		ds.Sorted = dict.IsSorted()
		for _, gs := range st.Groups {
			for _, term := range gs.Terms {
				ref := termkey.Ref{Object: gs.Name, Term: term}
				if _, ok := dict.Get(ref); !ok {
					ds.Missing = append(ds.Missing, ref.String())
				}
			}
		}
		sort.Strings(ds.Missing)
		st.Dictionaries = append(st.Dictionaries, ds)
	}
	return st, nil
}
