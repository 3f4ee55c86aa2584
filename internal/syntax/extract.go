package syntax

import sitter "github.com/smacker/go-tree-sitter"

// ExposingMode mirrors the spec's Module/Import exposing-mode field: either
// an explicit list of names or "expose everything" (`exposing (..)`).
type ExposingMode int

const (
	ExposingExplicit ExposingMode = iota
	ExposingAll
)

// ModuleHeader is the extracted `module Foo exposing (...)` declaration.
type ModuleHeader struct {
	Name         string
	NameNode     *sitter.Node
	Exposing     ExposingMode
	ExposedNames []ExposedItem
	ExposingNode *sitter.Node // the exposing_list node itself, nil if absent
	Node         *sitter.Node
}

// ExposedItem is one entry of an exposing list, value or type.
type ExposedItem struct {
	Name string
	Node *sitter.Node
}

// ImportDecl is an extracted `import Foo as F exposing (...)` clause.
type ImportDecl struct {
	ModuleName   string
	Alias        string // empty when no `as` clause
	AliasNode    *sitter.Node
	Exposing     ExposingMode
	ExposedNames []ExposedItem
	ExposingNode *sitter.Node // the exposing_list node itself, nil if absent
	Node         *sitter.Node
}

// DeclarationKind distinguishes the three declaration shapes a module body
// can introduce, matching the spec's declared-values/types/type-aliases
// split on Module.
type DeclarationKind int

const (
	DeclValue DeclarationKind = iota
	DeclType
	DeclTypeAlias
)

// Declaration is one top-level binding in a module. Node is the whole
// declaration (`@decl.node`); NameNode is just the identifier being
// declared (`@decl.name`) — the span a rename must match against an edit's
// old node, since an edit narrows to the smallest enclosing node, which for
// a rename is the identifier itself, never the whole declaration body.
type Declaration struct {
	Kind     DeclarationKind
	Name     string
	Node     *sitter.Node
	NameNode *sitter.Node
}

// Reference is one occurrence of a name being used (as opposed to defined),
// optionally qualified by a module alias/name.
type Reference struct {
	Qualifier string // empty when unqualified
	Name      string
	Node      *sitter.Node
}

// ExtractModuleHeader runs the module-header query against the file root
// and returns the single module declaration every well-formed Elm file has.
func ExtractModuleHeader(root *sitter.Node, source []byte) (*ModuleHeader, error) {
	q, err := queries.get(moduleHeaderQuery)
	if err != nil {
		return nil, err
	}
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	m, ok := qc.NextMatch()
	if !ok {
		return nil, nil
	}
	m = qc.FilterPredicates(m, source)

	hdr := &ModuleHeader{Exposing: ExposingExplicit}
	for _, c := range m.Captures {
		switch q.CaptureNameForId(c.Index) {
		case "module.decl":
			hdr.Node = c.Node
		case "module.name":
			hdr.Name = c.Node.Content(source)
			hdr.NameNode = c.Node
		case "module.exposing":
			hdr.ExposingNode = c.Node
			hdr.ExposedNames, hdr.Exposing = extractExposingList(c.Node, source)
		}
	}
	return hdr, nil
}

// ExtractImports returns every import clause in the file.
func ExtractImports(root *sitter.Node, source []byte) ([]ImportDecl, error) {
	q, err := queries.get(importQuery)
	if err != nil {
		return nil, err
	}
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var out []ImportDecl
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, source)

		imp := ImportDecl{Exposing: ExposingExplicit}
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "import.decl":
				imp.Node = c.Node
			case "import.module":
				imp.ModuleName = c.Node.Content(source)
			case "import.alias":
				imp.Alias = c.Node.Content(source)
				imp.AliasNode = c.Node
			case "import.exposing":
				imp.ExposingNode = c.Node
				imp.ExposedNames, imp.Exposing = extractExposingList(c.Node, source)
			}
		}
		out = append(out, imp)
	}
	return out, nil
}

// extractExposingList resolves a single exposing_list node into either
// ExposingAll (contains `..`) or the explicit set of names it lists.
func extractExposingList(node *sitter.Node, source []byte) ([]ExposedItem, ExposingMode) {
	if q, err := queries.get(exposingDoubleDotQuery); err == nil {
		qc := sitter.NewQueryCursor()
		qc.Exec(q, node)
		if _, ok := qc.NextMatch(); ok {
			qc.Close()
			return nil, ExposingAll
		}
		qc.Close()
	}

	var items []ExposedItem
	for _, qstr := range []string{exposedValueQuery, exposedTypeQuery} {
		q, err := queries.get(qstr)
		if err != nil {
			continue
		}
		qc := sitter.NewQueryCursor()
		qc.Exec(q, node)
		for {
			m, ok := qc.NextMatch()
			if !ok {
				break
			}
			m = qc.FilterPredicates(m, source)
			var item ExposedItem
			for _, c := range m.Captures {
				switch q.CaptureNameForId(c.Index) {
				case "exposed.item":
					item.Node = c.Node
				case "exposed.name":
					item.Name = c.Node.Content(source)
				}
			}
			if item.Name != "" {
				items = append(items, item)
			}
		}
		qc.Close()
	}
	return items, ExposingExplicit
}

// ExtractDeclarations returns every top-level value, type, and type-alias
// declaration in the file.
func ExtractDeclarations(root *sitter.Node, source []byte) ([]Declaration, error) {
	specs := []struct {
		query string
		kind  DeclarationKind
	}{
		{valueDeclarationQuery, DeclValue},
		{typeAliasDeclarationQuery, DeclTypeAlias},
		{typeDeclarationQuery, DeclType},
	}

	var out []Declaration
	for _, spec := range specs {
		q, err := queries.get(spec.query)
		if err != nil {
			return nil, err
		}
		qc := sitter.NewQueryCursor()
		qc.Exec(q, root)
		for {
			m, ok := qc.NextMatch()
			if !ok {
				break
			}
			m = qc.FilterPredicates(m, source)
			decl := Declaration{Kind: spec.kind}
			for _, c := range m.Captures {
				switch q.CaptureNameForId(c.Index) {
				case "decl.node":
					decl.Node = c.Node
				case "decl.name":
					decl.Name = c.Node.Content(source)
					decl.NameNode = c.Node
				}
			}
			if decl.Name != "" {
				out = append(out, decl)
			}
		}
		qc.Close()
	}
	return out, nil
}

// ExtractReferences returns every name occurrence (value or type) in the
// file, qualified or not, for the knowledge base's occurrence relation.
func ExtractReferences(root *sitter.Node, source []byte) ([]Reference, error) {
	var out []Reference
	for _, qstr := range []string{qualifiedValueRefQuery, qualifiedTypeRefQuery} {
		q, err := queries.get(qstr)
		if err != nil {
			return nil, err
		}
		qc := sitter.NewQueryCursor()
		qc.Exec(q, root)
		for {
			m, ok := qc.NextMatch()
			if !ok {
				break
			}
			m = qc.FilterPredicates(m, source)
			var ref Reference
			for _, c := range m.Captures {
				switch q.CaptureNameForId(c.Index) {
				case "ref.node":
					ref.Node = c.Node
				case "ref.qualifier":
					ref.Qualifier = c.Node.Content(source)
				case "ref.name":
					ref.Name = c.Node.Content(source)
				}
			}
			out = append(out, ref)
		}
		qc.Close()
	}

	q, err := queries.get(unqualifiedValueRefQuery)
	if err != nil {
		return nil, err
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(q, root)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, source)
		var ref Reference
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "ref.node":
				ref.Node = c.Node
			case "ref.name":
				ref.Name = c.Node.Content(source)
			}
		}
		out = append(out, ref)
	}
	qc.Close()

	return out, nil
}
