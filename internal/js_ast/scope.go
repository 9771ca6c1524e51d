package js_ast

import "errors"

type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota

	// Holds the parameters, the implicit "arguments" binding, and the name of
	// a function expression. The body gets its own ScopeFunctionBody child so
	// that parameter default values can't see declarations from the body.
	ScopeFunction
	ScopeFunctionBody

	ScopeClass
	ScopeClassStaticBlock
	ScopeBlock
	ScopeCatch

	// The extra layer introduced by "for (let ...)" and "for (const ... of ...)"
	ScopeForDeclarator
)

// IsHoistTarget reports whether "var" declarations stop climbing here
func (kind ScopeKind) IsHoistTarget() bool {
	return kind == ScopeGlobal || kind == ScopeFunctionBody || kind == ScopeClassStaticBlock
}

type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
	DeclClass
	DeclFunction
	DeclParameter
	DeclCatchParameter
	DeclArguments
	DeclSelfName
)

// IsLexical reports whether the declaration blocks hoisting of a function
// declaration with the same name out of a nested block
func (kind DeclKind) IsLexical() bool {
	return kind == DeclLet || kind == DeclConst || kind == DeclClass
}

var (
	ErrScopeFinalized    = errors.New("cannot declare into a scope that has been finalized")
	ErrScopeNotFinalized = errors.New("cannot look up a name in a scope that has not been finalized")
)

type Declaration struct {
	Name string
	Kind DeclKind
}

type Scope struct {
	Kind       ScopeKind
	Node       Index
	Parent     *Scope
	Children   []*Scope
	StrictMode bool

	// The nearest enclosing scope (possibly this one) where "var" lands
	hoistTarget *Scope

	// Declarations made directly in this scope, and declarations passed up
	// by children that were finalized before this scope. Both are consumed
	// when the scope is finalized, after which only "names" is used.
	pending []Declaration
	hoisted []Declaration

	names     map[string]DeclKind
	finalized bool
}

func newScope(kind ScopeKind, node Index, parent *Scope) *Scope {
	scope := &Scope{Kind: kind, Node: node, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, scope)
		scope.StrictMode = parent.StrictMode
	}
	if kind == ScopeClass || kind == ScopeClassStaticBlock {
		scope.StrictMode = true
	}
	if kind.IsHoistTarget() || parent == nil {
		scope.hoistTarget = scope
	} else {
		scope.hoistTarget = parent.hoistTarget
	}
	return scope
}

// HoistTarget returns the nearest enclosing function-like scope
func (s *Scope) HoistTarget() *Scope {
	return s.hoistTarget
}

// Declare records a pending declaration. The name only becomes visible to
// lookups once the scope is finalized.
func (s *Scope) Declare(name string, kind DeclKind) error {
	if s.finalized {
		return ErrScopeFinalized
	}
	s.pending = append(s.pending, Declaration{Name: name, Kind: kind})
	return nil
}

// Lookup returns how "name" is bound directly in this scope
func (s *Scope) Lookup(name string) (DeclKind, bool, error) {
	if !s.finalized {
		return 0, false, ErrScopeNotFinalized
	}
	kind, ok := s.names[name]
	return kind, ok, nil
}

// FindIdentifier walks up from this scope and returns the innermost scope
// that binds "name". A nil scope means the name is free in the module, i.e.
// it refers to an import or to a global.
func (s *Scope) FindIdentifier(name string) (*Scope, error) {
	for scope := s; scope != nil; scope = scope.Parent {
		if !scope.finalized {
			return nil, ErrScopeNotFinalized
		}
		if _, ok := scope.names[name]; ok {
			return scope, nil
		}
	}
	return nil, nil
}

func (s *Scope) passUp(decl Declaration) {
	if s.Parent == nil {
		s.bindIfAbsent(decl.Name, decl.Kind)
		return
	}
	s.Parent.hoisted = append(s.Parent.hoisted, decl)
}

func (s *Scope) bindIfAbsent(name string, kind DeclKind) {
	if _, ok := s.names[name]; !ok {
		s.names[name] = kind
	}
}

func (s *Scope) finalize() {
	if s.finalized {
		panic("Internal error: scope finalized twice")
	}
	s.names = make(map[string]DeclKind, len(s.pending))
	isTarget := s.Kind.IsHoistTarget()

	for _, decl := range s.pending {
		switch decl.Kind {
		case DeclVar:
			if isTarget {
				s.bindIfAbsent(decl.Name, DeclVar)
			} else {
				s.passUp(decl)
			}

		case DeclFunction:
			// A function declaration always binds in its own block. Outside of
			// strict mode it is additionally visible from the enclosing function
			// unless a lexical declaration of the same name gets in the way.
			s.names[decl.Name] = DeclFunction
			if !isTarget && !s.StrictMode {
				s.passUp(decl)
			}

		default:
			s.names[decl.Name] = decl.Kind
		}
	}

	for _, decl := range s.hoisted {
		if decl.Kind == DeclFunction {
			if kind, ok := s.names[decl.Name]; ok && kind.IsLexical() {
				continue
			}
		}
		if isTarget {
			s.bindIfAbsent(decl.Name, decl.Kind)
		} else {
			s.passUp(decl)
		}
	}

	s.pending = nil
	s.hoisted = nil
	s.finalized = true
}

// ScopeBuilder maintains the stack of open scopes during a traversal. Scopes
// are finalized innermost first as the traversal leaves them, which is what
// allows "var" and function declarations to be passed up to the scope where
// they finally land.
type ScopeBuilder struct {
	Global  *Scope
	current *Scope
}

func NewScopeBuilder(program Index, strict bool) *ScopeBuilder {
	global := newScope(ScopeGlobal, program, nil)
	global.StrictMode = strict
	return &ScopeBuilder{Global: global, current: global}
}

func (b *ScopeBuilder) Current() *Scope {
	return b.current
}

func (b *ScopeBuilder) BeginScope(kind ScopeKind, node Index) *Scope {
	if b.current == nil {
		panic("Internal error: no open scope")
	}
	b.current = newScope(kind, node, b.current)
	return b.current
}

func (b *ScopeBuilder) Declare(name string, kind DeclKind) error {
	return b.current.Declare(name, kind)
}

// FinalizeScope freezes the current scope and makes its parent current
func (b *ScopeBuilder) FinalizeScope() *Scope {
	scope := b.current
	scope.finalize()
	b.current = scope.Parent
	return scope
}

// ScopeTable is the result of the analysis pass. It is a side table over an
// AST: ByNode maps each scope-introducing node to its scope and Refs maps
// every identifier in a reference position to the scope it appears in.
type ScopeTable struct {
	Global *Scope
	ByNode map[Index]*Scope
	Refs   map[Index]*Scope
}
