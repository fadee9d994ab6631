package validate

import (
	"pragmadb/internal/gencontext"
	"pragmadb/internal/semantics"
)

// semanticPass runs §4.D pass 2: the cross-cutting checks that only make
// sense once every class's kind and special members are resolved.
func semanticPass(ctx *gencontext.Context, diags *Diagnostics) {
	u := ctx.Unit
	u.All(func(r semantics.Ref, n *semantics.Node) {
		if n.Kind != semantics.KindClass {
			return
		}
		if semantics.GetOr(&n.Annotations, semantics.AnnoKeyClassKind, semantics.ClassOther) != semantics.ClassObject {
			return
		}
		checkSections(u, n, diags)
	})
}

type sectionInfo struct {
	members  []semantics.Ref
	load     string
	readonly bool
}

// checkSections groups a class's members by #pragma db section and
// rejects an empty section (declared but with no members assigned) or an
// eager-load section whose members are all readonly — eager-loading data
// that can never change burns a round trip for nothing, so the validator
// treats it as a modeling mistake rather than silently accepting it.
func checkSections(u *semantics.Unit, n *semantics.Node, diags *Diagnostics) {
	sections := map[string]*sectionInfo{}
	for _, m := range n.Members {
		mn := u.Node(m)
		name := semantics.GetOr(&mn.Annotations, semantics.AnnoSection, "")
		if name == "" {
			continue
		}
		s, ok := sections[name]
		if !ok {
			s = &sectionInfo{
				load:     semantics.GetOr(&mn.Annotations, semantics.AnnoSectionLoad, "lazy"),
				readonly: true,
			}
			sections[name] = s
		}
		s.members = append(s.members, m)
		if !semantics.GetOr(&mn.Annotations, semantics.AnnoReadonly, false) {
			s.readonly = false
		}
	}

	for name, s := range sections {
		if len(s.members) == 0 {
			diags.Error(n.Loc, n.Name, "section "+name+" is declared but empty")
			continue
		}
		if s.load == "eager" && s.readonly {
			diags.Error(n.Loc, n.Name, "section "+name+" is eager-load and entirely readonly")
		}
	}
}

// ValidateOptions rejects the three invalid command-line combinations
// named in §4.D's last paragraph.
func ValidateOptions(opts gencontext.Options) []*OptionError {
	var errs []*OptionError

	if opts.GenerateSchema && !opts.GenerateQuery && !hasStandaloneFormat(opts) {
		// Schema-only generation (no query support) needs a standalone
		// artifact to write the schema into; embedded schema is carried
		// inside the generated query-support code, which schema-only
		// builds don't emit.
		errs = append(errs, &OptionError{Option: "--generate-schema-only", Reason: "requires a standalone schema format (separate or sql)"})
	}

	if opts.MultiDatabase == gencontext.MultiDatabaseDynamic {
		if _, ok := opts.SchemaFormats[gencontext.DatabaseCommon]; !ok {
			errs = append(errs, &OptionError{Option: "--multi-database=dynamic", Reason: "requires a common default database entry"})
		}
	}

	if opts.ChangelogIn != "" && opts.ChangelogOut == "" {
		errs = append(errs, &OptionError{Option: "--changelog-in", Reason: "requires --changelog-out"})
	}

	return errs
}

func hasStandaloneFormat(opts gencontext.Options) bool {
	for _, f := range opts.SchemaFormats {
		if f == gencontext.SchemaFormatSeparate || f == gencontext.SchemaFormatSQL {
			return true
		}
	}
	return false
}
