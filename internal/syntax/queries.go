package syntax

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// queryCache compiles and caches tree-sitter queries by source string, the
// same pattern ingest.SitterWalker uses for its call/context queries:
// queries are expensive to compile and the grammar never changes at
// runtime, so compile once and reuse across every file and every edit.
type queryCache struct {
	mu      sync.Mutex
	queries map[string]*sitter.Query
}

var queries = &queryCache{queries: make(map[string]*sitter.Query)}

func (c *queryCache) get(src string) (*sitter.Query, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q, ok := c.queries[src]; ok {
		return q, nil
	}
	q, err := sitter.NewQuery([]byte(src), GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("syntax: compile query: %w", err)
	}
	c.queries[src] = q
	return q, nil
}

// Queries below target the tree-sitter-elm grammar's node kinds.

const moduleHeaderQuery = `
(module_declaration
  (upper_case_qid) @module.name
  (exposing_list)? @module.exposing) @module.decl
`

const importQuery = `
(import_clause
  (upper_case_qid) @import.module
  (as_clause (upper_case_identifier) @import.alias)?
  (exposing_list)? @import.exposing) @import.decl
`

const exposedValueQuery = `
(exposing_list
  (exposed_value (lower_case_identifier) @exposed.name) @exposed.item)
`

const exposedTypeQuery = `
(exposing_list
  (exposed_type (upper_case_identifier) @exposed.name) @exposed.item)
`

const exposingDoubleDotQuery = `
(exposing_list (double_dot) @exposed.all)
`

const valueDeclarationQuery = `
(value_declaration
  (function_declaration_left (lower_case_identifier) @decl.name)) @decl.node
`

const typeAliasDeclarationQuery = `
(type_alias_declaration (upper_case_identifier) @decl.name) @decl.node
`

const typeDeclarationQuery = `
(type_declaration (upper_case_identifier) @decl.name) @decl.node
`

const qualifiedValueRefQuery = `
(value_expr (value_qid (upper_case_identifier) @ref.qualifier (lower_case_identifier) @ref.name)) @ref.node
`

const unqualifiedValueRefQuery = `
(value_expr (lower_case_identifier) @ref.name) @ref.node
`

const qualifiedTypeRefQuery = `
(type_ref (upper_case_qid (upper_case_identifier) @ref.qualifier (upper_case_identifier) @ref.name)) @ref.node
`
