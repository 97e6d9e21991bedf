package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/registrable"
	"github.com/vk/registrable/internal/ctxlog"
	"github.com/vk/registrable/internal/fsutil"
)

// fileSchema is the top-level structure of a catalog manifest file.
type fileSchema struct {
	Modules []*moduleBlock `hcl:"module,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// moduleBlock is a single `module "dotted.path" { ... }` block.
type moduleBlock struct {
	Path        string         `hcl:"path,label"`
	Description string         `hcl:"description,optional"`
	Plugin      string         `hcl:"plugin"`
	Members     hcl.Expression `hcl:"members,optional"`
}

// Entry describes one declared module.
type Entry struct {
	Path        string
	Description string
	// Plugin is the resolved path of the shared object, relative paths
	// having been anchored at the manifest file's directory.
	Plugin string
	// Members lists the exported symbols the module offers. Empty means
	// every exported symbol is visible.
	Members []string

	once    sync.Once
	module  *pluginModule
	openErr error
}

// Catalog is an immutable set of module entries. It implements
// registrable.Loader.
type Catalog struct {
	entries map[string]*Entry
}

// Load builds a catalog from every .hcl file found under the given paths.
// A path may be a single manifest file or a directory searched recursively.
// Declaring the same module path twice is an error.
func Load(ctx context.Context, paths ...string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	var filePaths []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("searching %q for catalog manifests: %w", path, err)
		}
		filePaths = append(filePaths, found...)
	}
	logger.Debug("Catalog manifests discovered.", "count", len(filePaths))

	cat := &Catalog{entries: make(map[string]*Entry)}
	parser := hclparse.NewParser()

	for _, filePath := range filePaths {
		file, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse catalog manifest %s: %w", filePath, diags)
		}

		var schema fileSchema
		if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode catalog manifest %s: %w", filePath, diags)
		}

		for _, block := range schema.Modules {
			entry, err := translateModuleBlock(block, filepath.Dir(filePath))
			if err != nil {
				return nil, fmt.Errorf("in catalog manifest %s: %w", filePath, err)
			}
			if existing, ok := cat.entries[entry.Path]; ok {
				return nil, fmt.Errorf("module %q declared twice (plugins %s and %s)", entry.Path, existing.Plugin, entry.Plugin)
			}
			cat.entries[entry.Path] = entry
			logger.Debug("Catalog module declared.", "path", entry.Path, "plugin", entry.Plugin)
		}
	}

	logger.Info("Catalog loaded successfully.", "modules", len(cat.entries))
	return cat, nil
}

// translateModuleBlock converts the HCL-specific block into an Entry,
// evaluating the members expression to a list of strings.
func translateModuleBlock(block *moduleBlock, baseDir string) (*Entry, error) {
	entry := &Entry{
		Path:        block.Path,
		Description: block.Description,
		Plugin:      block.Plugin,
	}
	if !filepath.IsAbs(entry.Plugin) {
		entry.Plugin = filepath.Join(baseDir, entry.Plugin)
	}

	if block.Members != nil {
		val, diags := block.Members.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid members for module %q: %w", block.Path, diags)
		}
		if !val.IsNull() {
			if !val.CanIterateElements() {
				return nil, fmt.Errorf("members for module %q must be a list of strings", block.Path)
			}
			for it := val.ElementIterator(); it.Next(); {
				_, member := it.Element()
				if member.Type() != cty.String {
					return nil, fmt.Errorf("members for module %q must be a list of strings", block.Path)
				}
				entry.Members = append(entry.Members, member.AsString())
			}
		}
	}

	return entry, nil
}

// Entries returns the declared module paths in no particular order.
func (c *Catalog) Entries() []*Entry {
	entries := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	return entries
}

// Entry returns the declared entry for a module path.
func (c *Catalog) Entry(path string) (*Entry, bool) {
	e, ok := c.entries[path]
	return e, ok
}

// Load implements registrable.Loader: it resolves a dotted module path to
// its declared plugin, opening the shared object on first use.
func (c *Catalog) Load(path string) (registrable.Module, error) {
	entry, ok := c.entries[path]
	if !ok {
		return nil, fmt.Errorf("module %q is not declared in the catalog", path)
	}
	return entry.open()
}
