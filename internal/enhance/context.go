// SPDX-License-Identifier: MPL-2.0

package enhance

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/koentsje/enhancer/internal/classfile"
)

// byteCacheSize bounds the class-bytes cache. Both phases read every
// class once; the cache keeps the second phase from hitting the disk
// again for anything still resident.
const byteCacheSize = 1024

type (
	// Flags are the four capability switches passed through to the
	// transformer. They are global for the run: every query gets the
	// same answer, with no per-class policy in the core.
	Flags struct {
		AssociationManagement bool
		DirtyTracking         bool
		LazyInitialization    bool
		ExtendedEnhancement   bool
	}

	// Context is the isolated resolution scope for one run. It loads
	// class bytes by dotted name from the classes root, falling back to
	// an optional parent lookup (the transformer library's own scope),
	// and exposes the capability flags. Built once per run, after
	// source-set assembly and before discovery; discarded at run end.
	Context struct {
		root   string
		flags  Flags
		parent func(className string) ([]byte, error)
		cache  *lru.Cache[string, []byte]
	}

	// ContextOption customises Context construction.
	ContextOption func(*Context)
)

// DeprecationWarnings reports capability choices that still work but
// are slated for removal: leaving lazy initialization or dirty tracking
// off is deprecated.
func (f Flags) DeprecationWarnings() []string {
	var warnings []string
	if !f.LazyInitialization {
		warnings = append(warnings, "the 'enable_lazy_initialization' configuration is deprecated and will be removed; set it to true to get rid of this warning")
	}
	if !f.DirtyTracking {
		warnings = append(warnings, "the 'enable_dirty_tracking' configuration is deprecated and will be removed; set it to true to get rid of this warning")
	}
	return warnings
}

// WithParentLookup layers the context on top of an outer resolution
// scope: class names not found under the root are resolved through fn.
func WithParentLookup(fn func(className string) ([]byte, error)) ContextOption {
	return func(c *Context) { c.parent = fn }
}

// NewContext builds the resolution context rooted at the classes
// directory. A missing or unreadable root is fatal to the run.
func NewContext(root string, flags Flags, opts ...ContextOption) (*Context, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("resolution context root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resolution context root %q is not a directory", root)
	}

	cache, err := lru.New[string, []byte](byteCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create class byte cache: %w", err)
	}

	c := &Context{root: root, flags: flags, cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Root returns the classes root the context resolves against.
func (c *Context) Root() string { return c.root }

// The four accessors answer capability queries from the transformer.
// The policy behind a query (e.g. whether a given class is eligible for
// lazy-loadable treatment) belongs to the transformer; the context only
// wires the configured booleans through, identically for every class.

func (c *Context) AssociationManagement() bool { return c.flags.AssociationManagement }

func (c *Context) DirtyTracking() bool { return c.flags.DirtyTracking }

func (c *Context) LazyInitialization() bool { return c.flags.LazyInitialization }

func (c *Context) ExtendedEnhancement() bool { return c.flags.ExtendedEnhancement }

// LoadClass resolves a dotted class name to its bytecode: first under
// the classes root, then through the parent lookup when configured.
func (c *Context) LoadClass(className string) ([]byte, error) {
	path := classfile.Path(c.root, className)
	code, err := c.readFile(path)
	if err == nil {
		return code, nil
	}
	if os.IsNotExist(err) && c.parent != nil {
		return c.parent(className)
	}
	return nil, fmt.Errorf("load class %s: %w", className, err)
}

// readFile reads a file through the byte cache.
func (c *Context) readFile(path string) ([]byte, error) {
	if code, ok := c.cache.Get(path); ok {
		return code, nil
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.cache.Add(path, code)
	return code, nil
}

// invalidate drops a cached entry after its file has been rewritten.
func (c *Context) invalidate(path string) {
	c.cache.Remove(path)
}
