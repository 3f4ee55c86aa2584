package kb

// Resolve answers the `resolve` operation: given the module an occurrence
// appears in, its optional qualifier, and the identifier itself, determine
// which module's declaration it refers to. Local bindings shadow imports;
// imports shadow nothing else because an unqualified name can only ever
// come from a local binding, a same-module declaration, or an exposed
// import — there is no further tier to fall back to.
func (s *Store) Resolve(moduleName string, scopeChain []*Scope, qualifier, identifier string) Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if qualifier != "" {
		return s.resolveQualifiedLocked(moduleName, qualifier, identifier)
	}
	return s.resolveUnqualifiedLocked(moduleName, scopeChain, identifier)
}

func (s *Store) resolveQualifiedLocked(moduleName, qualifier, identifier string) Resolution {
	for _, imp := range s.importsByModule[moduleName] {
		if importMatchesQualifier(imp, qualifier) {
			if target, ok := s.modulesByName[imp.ImportedModule]; ok && declares(target, identifier) {
				return Resolution{Status: ResolvedUnique, Module: imp.ImportedModule}
			}
			return Resolution{Status: ResolvedUnresolved}
		}
	}
	return Resolution{Status: ResolvedUnresolved}
}

func (s *Store) resolveUnqualifiedLocked(moduleName string, scopeChain []*Scope, identifier string) Resolution {
	// 1. Local bindings, innermost scope first — shadows everything else.
	for i := len(scopeChain) - 1; i >= 0; i-- {
		if _, ok := scopeChain[i].Bindings[identifier]; ok {
			return Resolution{Status: ResolvedUnique, Module: moduleName}
		}
	}

	// 2. Same-module declarations.
	if mod, ok := s.modulesByName[moduleName]; ok && declares(mod, identifier) {
		return Resolution{Status: ResolvedUnique, Module: moduleName}
	}

	// 3. Names exposed by imports. More than one import exposing the same
	// name with no qualifier is an ambiguous resolution the recognizers
	// must refuse to silently pick a side on.
	var candidates []string
	for _, imp := range s.importsByModule[moduleName] {
		if importExposes(imp, identifier) {
			candidates = append(candidates, imp.ImportedModule)
		}
	}

	switch len(candidates) {
	case 0:
		return Resolution{Status: ResolvedUnresolved}
	case 1:
		return Resolution{Status: ResolvedUnique, Module: candidates[0]}
	default:
		return Resolution{Status: ResolvedAmbiguous, Candidates: candidates}
	}
}

// VisibleNames answers the `visible_names` operation: every identifier an
// unqualified reference in moduleName could currently resolve to, honoring
// the same shadowing order as Resolve.
func (s *Store) VisibleNames(moduleName string, scopeChain []*Scope) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, scope := range scopeChain {
		for name := range scope.Bindings {
			add(name)
		}
	}
	if mod, ok := s.modulesByName[moduleName]; ok {
		for _, n := range mod.DeclaredValues {
			add(n)
		}
		for _, n := range mod.DeclaredTypes {
			add(n)
		}
		for _, n := range mod.DeclaredTypeAliases {
			add(n)
		}
	}
	for _, imp := range s.importsByModule[moduleName] {
		if imp.Exposing == ExposingAll {
			if target, ok := s.modulesByName[imp.ImportedModule]; ok {
				for _, n := range target.DeclaredValues {
					add(n)
				}
				for _, n := range target.DeclaredTypes {
					add(n)
				}
			}
			continue
		}
		for _, n := range imp.ExposedNames {
			add(n)
		}
	}
	return out
}

func importMatchesQualifier(imp Import, qualifier string) bool {
	if imp.Alias != "" {
		return imp.Alias == qualifier
	}
	return imp.ImportedModule == qualifier
}

func importExposes(imp Import, identifier string) bool {
	if imp.Exposing == ExposingAll {
		return true
	}
	for _, n := range imp.ExposedNames {
		if n == identifier {
			return true
		}
	}
	return false
}

func declares(mod *Module, identifier string) bool {
	for _, n := range mod.DeclaredValues {
		if n == identifier {
			return true
		}
	}
	for _, n := range mod.DeclaredTypes {
		if n == identifier {
			return true
		}
	}
	for _, n := range mod.DeclaredTypeAliases {
		if n == identifier {
			return true
		}
	}
	return false
}
