package parser

import (
	"strings"

	"github.com/walteh/codehl/pkg/token"
)

type ScopeType string

const (
	ScopeGlobal   ScopeType = "global"
	ScopeFunction ScopeType = "function"
	ScopeClass    ScopeType = "class"
)

// Binding is a name declared in a scope.
type Binding struct {
	Name string
	// Kind is the declaring keyword: function, class, const, let, var or param.
	Kind  string
	Token token.Token
}

type Scope struct {
	Type    ScopeType
	Name    string
	Parent  *Scope
	Symbols map[string]Binding
}

// ScopeStack is owned by a single Parse call and threaded through every
// parse function that opens or queries a scope. It never outlives the call.
type ScopeStack struct {
	current *Scope
	depth   int
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{
		current: &Scope{Type: ScopeGlobal, Symbols: map[string]Binding{}},
	}
}

func (s *ScopeStack) Current() *Scope {
	return s.current
}

// Depth is 0 at global scope.
func (s *ScopeStack) Depth() int {
	return s.depth
}

func (s *ScopeStack) Push(typ ScopeType, name string) *Scope {
	s.current = &Scope{Type: typ, Name: name, Parent: s.current, Symbols: map[string]Binding{}}
	s.depth++
	return s.current
}

// Pop leaves the current scope. The global scope is never popped.
func (s *ScopeStack) Pop() {
	if s.current.Parent == nil {
		return
	}
	s.current = s.current.Parent
	s.depth--
}

func (s *ScopeStack) Declare(name, kind string, tok token.Token) {
	if name == "" {
		return
	}
	s.current.Symbols[name] = Binding{Name: name, Kind: kind, Token: tok}
}

// Lookup resolves name from the innermost scope outwards.
func (s *ScopeStack) Lookup(name string) (Binding, *Scope, bool) {
	for sc := s.current; sc != nil; sc = sc.Parent {
		if b, ok := sc.Symbols[name]; ok {
			return b, sc, true
		}
	}
	return Binding{}, nil, false
}

// Path is the dotted list of named scopes from the outermost inwards, e.g.
// "App.handleClick". It is empty at global scope.
func (s *ScopeStack) Path() string {
	var names []string
	for sc := s.current; sc != nil; sc = sc.Parent {
		if sc.Name != "" {
			names = append(names, sc.Name)
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}

// Component returns the name of the innermost named function or class scope.
func (s *ScopeStack) Component() string {
	for sc := s.current; sc != nil; sc = sc.Parent {
		if sc.Type != ScopeGlobal && sc.Name != "" {
			return sc.Name
		}
	}
	return ""
}
