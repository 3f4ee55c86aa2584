package kb

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/elm-pair/elm-pair/internal/syntax"
)

// UpdateFile re-derives every relation a single file contributes and
// installs it into the store, replacing whatever that file contributed
// before. It is the incremental-update operation §4.2 describes: driven by
// a TreeEdit (or, for a freshly opened file, the initial parse), it reads
// the post-edit tree and writes a consistent snapshot in one step.
func (s *Store) UpdateFile(fileID syntax.FileID, filePath string, root *sitter.Node, source []byte) error {
	hdr, err := syntax.ExtractModuleHeader(root, source)
	if err != nil {
		return fmt.Errorf("kb: extract module header: %w", err)
	}
	if hdr == nil {
		// A file with no module header yet (mid-edit, or not Elm at all)
		// contributes nothing; dropping its prior rows is still correct.
		s.DeleteFile(fileID)
		return nil
	}

	imports, err := syntax.ExtractImports(root, source)
	if err != nil {
		return fmt.Errorf("kb: extract imports: %w", err)
	}

	decls, err := syntax.ExtractDeclarations(root, source)
	if err != nil {
		return fmt.Errorf("kb: extract declarations: %w", err)
	}

	refs, err := syntax.ExtractReferences(root, source)
	if err != nil {
		return fmt.Errorf("kb: extract references: %w", err)
	}

	mod := &Module{
		Name:          hdr.Name,
		File:          fileID,
		FilePath:      filePath,
		Exposing:      hdr.Exposing,
		ExposedNames:  exposedNames(hdr.ExposedNames),
		ExposingRange: nodeRange(hdr.ExposingNode),
	}

	scope := &Scope{Module: hdr.Name, Bindings: make(map[string]Position)}

	var occs []Occurrence
	for _, d := range decls {
		switch d.Kind {
		case syntax.DeclValue:
			mod.DeclaredValues = append(mod.DeclaredValues, d.Name)
		case syntax.DeclType:
			mod.DeclaredTypes = append(mod.DeclaredTypes, d.Name)
		case syntax.DeclTypeAlias:
			mod.DeclaredTypeAliases = append(mod.DeclaredTypeAliases, d.Name)
		}
		// Anchored at the identifier itself (@decl.name), not the whole
		// declaration (@decl.node): a rename edit's old node is narrowed to
		// the smallest enclosing node, which for a rename is the identifier,
		// never the declaration's full body — R1.Matches compares its edit's
		// byte range against this occurrence's Position exactly.
		pos := nodePosition(fileID, d.NameNode)
		scope.Bindings[d.Name] = pos
		occs = append(occs, Occurrence{
			Kind:       OccurrenceDefinition,
			Identifier: d.Name,
			Position:   pos,
			Resolution: Resolution{Status: ResolvedUnique, Module: hdr.Name},
		})
	}

	importRows := make([]Import, 0, len(imports))
	for _, imp := range imports {
		importRows = append(importRows, Import{
			ImportingModule: hdr.Name,
			ImportedModule:  imp.ModuleName,
			Alias:           imp.Alias,
			Exposing:        imp.Exposing,
			ExposedNames:    exposedNames(imp.ExposedNames),
			ExposingRange:   nodeRange(imp.ExposingNode),
			AliasRange:      nodeRange(imp.AliasNode),
		})
	}

	for _, ref := range refs {
		occs = append(occs, Occurrence{
			Kind:       OccurrenceUse,
			Qualifier:  ref.Qualifier,
			Identifier: ref.Name,
			Position:   nodePosition(fileID, ref.Node),
		})
	}

	// Use occurrences are stored without a Resolution; names are resolved
	// on demand by Store.Resolve (resolve.go), since resolving an import
	// requires another module's declarations to already be in the store.
	s.PutFile(mod, importRows, []*Scope{scope}, occs)
	return nil
}

func exposedNames(items []syntax.ExposedItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func nodePosition(fileID syntax.FileID, node *sitter.Node) Position {
	if node == nil {
		return Position{File: fileID}
	}
	return Position{File: fileID, StartByte: node.StartByte(), EndByte: node.EndByte()}
}

func nodeRange(node *sitter.Node) ByteRange {
	if node == nil {
		return ByteRange{}
	}
	return ByteRange{Start: node.StartByte(), End: node.EndByte()}
}
