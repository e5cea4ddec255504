// Package discovery locates the i18n files that belong to a module: the
// literals declaration and one JSON dictionary per supported language.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Defaults mirror the layout of Angular-style workspaces.
var (
	DefaultDeclarationFile = "literals.ts"
	DefaultLanguages       = []string{"en", "es", "pt"}
	DefaultExclude         = []string{"**/node_modules/**"}
)

// Options selects what Find looks for.
type Options struct {
	DeclarationFile string
	Languages       []string
	Exclude         []string
}

// Dictionary is a discovered translation file.
type Dictionary struct {
	Lang string
	Path string
}

// Files is the result of Find. Paths are absolute and sorted.
type Files struct {
	Declarations []string
	Dictionaries []Dictionary
}

// Declaration returns the first declaration, or "" when none was found.
func (f *Files) Declaration() string {
	if len(f.Declarations) == 0 {
		return ""
	}
	return f.Declarations[0]
}

// Finder walks a workspace root.
type Finder struct {
	root     string
	declName string
	dictName glob.Glob
	exclude  []glob.Glob
}

// New compiles the discovery globs for root.
func New(root string, opts Options) (*Finder, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	if opts.DeclarationFile == "" {
		opts.DeclarationFile = DefaultDeclarationFile
	}
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}

	f := &Finder{root: abs, declName: opts.DeclarationFile}

	quoted := make([]string, len(opts.Languages))
	for i, l := range opts.Languages {
		quoted[i] = glob.QuoteMeta(l)
	}
	namePattern := quoted[0] + ".json"
	if len(quoted) > 1 {
		namePattern = "{" + strings.Join(quoted, ",") + "}.json"
	}
	if f.dictName, err = glob.Compile(namePattern, '/'); err != nil {
		return nil, fmt.Errorf("compiling %q: %w", namePattern, err)
	}

	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling exclude %q: %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}
	return f, nil
}

// Root returns the absolute workspace root.
func (f *Finder) Root() string {
	return f.root
}

// Find returns the declaration and dictionary files located anywhere below
// a directory named module.
func (f *Finder) Find(module string) (*Files, error) {
	moduleGlob, err := glob.Compile("**/"+glob.QuoteMeta(module)+"/**", '/')
	if err != nil {
		return nil, fmt.Errorf("compiling module pattern for %q: %w", module, err)
	}

	files := &Files{}
	err = filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && f.excluded(dirKey(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !moduleGlob.Match(dirKey(filepath.Dir(rel))) {
			return nil
		}
		name := d.Name()
		switch {
		case name == f.declName:
			files.Declarations = append(files.Declarations, path)
		case f.dictName.Match(name):
			files.Dictionaries = append(files.Dictionaries, Dictionary{
				Lang: strings.TrimSuffix(name, ".json"),
				Path: path,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", f.root, err)
	}

	sort.Strings(files.Declarations)
	sort.Slice(files.Dictionaries, func(i, j int) bool {
		return files.Dictionaries[i].Path < files.Dictionaries[j].Path
	})
	return files, nil
}

func (f *Finder) excluded(key string) bool {
	for _, g := range f.exclude {
		if g.Match(key) {
			return true
		}
	}
	return false
}

// dirKey renders a relative directory as "/a/b/" so that "**/x/**"
// patterns match x at any depth, including the first and last segment.
func dirKey(rel string) string {
	if rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel) + "/"
}
