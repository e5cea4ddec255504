// Package config loads workspace settings from .litgen.yaml and the
// environment.
//
// Every field is optional. Values are resolved in this order, later wins:
// built-in defaults, .litgen.yaml, variables from .env in the root, process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/litgen/declaration"
	"github.com/minios-linux/litgen/dictionary"
	"github.com/minios-linux/litgen/discovery"
	"github.com/minios-linux/litgen/langmeta"
	"github.com/minios-linux/litgen/modpath"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the .litgen.yaml structure.
type Config struct {
	// Containers are directory names whose next segment names the module,
	// tried in order (default libs, modules).
	Containers []string `yaml:"containers,omitempty"`
	// Languages are the two-letter codes of the dictionary files.
	Languages []string `yaml:"languages,omitempty"`
	// DeclarationFile is the file name of the typed declaration.
	DeclarationFile string `yaml:"declaration_file,omitempty"`
	// Exclude lists directory globs skipped during discovery.
	Exclude []string `yaml:"exclude,omitempty"`
	// AccessorPrefix is prepended to object.term in rewritten source.
	AccessorPrefix string `yaml:"accessor_prefix,omitempty"`
	// Indent is one indentation level in the declaration.
	Indent string `yaml:"indent,omitempty"`
	// PropertyType is the type given to new declaration properties.
	PropertyType string `yaml:"property_type,omitempty"`
	// JSONIndent is the indentation of written dictionaries.
	JSONIndent string `yaml:"json_indent,omitempty"`

	path string `yaml:"-"`
}

// FileName is the config file looked up in the workspace root.
const FileName = ".litgen.yaml"

// EnvFileName is the optional dotenv file looked up in the workspace root.
const EnvFileName = ".env"

// DefaultAccessorPrefix matches components that inject the literals as
// an "i18n" member.
const DefaultAccessorPrefix = "this.i18n"

// Environment overrides.
const (
	EnvLanguages       = "LITGEN_LANGUAGES"
	EnvContainers      = "LITGEN_CONTAINERS"
	EnvAccessorPrefix  = "LITGEN_ACCESSOR_PREFIX"
	EnvDeclarationFile = "LITGEN_DECLARATION_FILE"
)

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.fillDefaults()
	return c
}

// Load reads .litgen.yaml and .env from rootDir. Missing files are not an
// error.
func Load(rootDir string) (*Config, error) {
	c := &Config{}

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		c.path = path
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	envPath := filepath.Join(rootDir, EnvFileName)
	dotenv, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envPath, err)
	}
	c.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	})

	c.fillDefaults()
	if err := c.validate(); err != nil {
		where := path
		if c.path == "" {
			where = "config"
		}
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return c, nil
}

// Path returns the config file the settings came from, or "".
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvLanguages); v != "" {
		c.Languages = splitList(v)
	}
	if v := getenv(EnvContainers); v != "" {
		c.Containers = splitList(v)
	}
	if v := getenv(EnvAccessorPrefix); v != "" {
		c.AccessorPrefix = v
	}
	if v := getenv(EnvDeclarationFile); v != "" {
		c.DeclarationFile = v
	}
}

func (c *Config) fillDefaults() {
	if len(c.Containers) == 0 {
		c.Containers = append([]string(nil), modpath.DefaultContainers...)
	}
	if len(c.Languages) == 0 {
		c.Languages = append([]string(nil), discovery.DefaultLanguages...)
	}
	if c.DeclarationFile == "" {
		c.DeclarationFile = discovery.DefaultDeclarationFile
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), discovery.DefaultExclude...)
	}
	if c.AccessorPrefix == "" {
		c.AccessorPrefix = DefaultAccessorPrefix
	}
	if c.Indent == "" {
		c.Indent = declaration.DefaultIndent
	}
	if c.PropertyType == "" {
		c.PropertyType = "any"
	}
	if c.JSONIndent == "" {
		c.JSONIndent = dictionary.DefaultIndent
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for _, l := range c.Languages {
		if !langmeta.Valid(l) {
			return fmt.Errorf("language %q is not a two-letter ISO 639-1 code", l)
		}
		if seen[l] {
			return fmt.Errorf("language %q listed twice", l)
		}
		seen[l] = true
	}
	for _, ct := range c.Containers {
		if ct == "" || strings.ContainsAny(ct, `/\`) {
			return fmt.Errorf("container %q must be a single directory name", ct)
		}
	}
	if strings.ContainsAny(c.DeclarationFile, `/\`) {
		return fmt.Errorf("declaration_file %q must be a file name, not a path", c.DeclarationFile)
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("indent %q may only contain spaces and tabs", c.Indent)
	}
	if strings.Trim(c.JSONIndent, " \t") != "" {
		return fmt.Errorf("json_indent %q may only contain spaces and tabs", c.JSONIndent)
	}
	return nil
}

// DiscoveryOptions converts the config for discovery.New.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{
		DeclarationFile: c.DeclarationFile,
		Languages:       c.Languages,
		Exclude:         c.Exclude,
	}
}

// DeclarationOptions converts the config for declaration.Patch.
func (c *Config) DeclarationOptions() declaration.Options {
	return declaration.Options{Indent: c.Indent, Type: c.PropertyType}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
