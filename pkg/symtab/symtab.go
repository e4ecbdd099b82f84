// Package symtab implements the per-function symbol table.
//
// Design: an arena of one-word stack slots plus a name index. Blocks
// acquire slots through a Frame and release them only by exiting that
// Frame, so every exit path restores the enclosing scope exactly.
package symtab

import (
	"fmt"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/diag"
)

// WordSize is the width of every stack slot, whatever the declared kind.
const WordSize = 4

// Kind is a primitive source type.
type Kind int

const (
	Int Kind = iota
	Char
	Str
)

// ParseKind maps a type keyword to its Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "int":
		return Int, true
	case "char":
		return Char, true
	case "str":
		return Str, true
	}
	return 0, false
}

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Char:
		return "char"
	case Str:
		return "str"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Size is the declared byte size. Storage is always one word.
func (k Kind) Size() int {
	if k == Char {
		return 1
	}
	return 4
}

// Variable is a parameter or local bound to a stack slot.
type Variable struct {
	Name string
	Kind Kind
	Size int
	Slot int
}

// IsParam reports whether v lives in the caller's argument area.
func (v Variable) IsParam() bool { return v.Slot < 0 }

// Scope is the set of bindings visible while compiling one function.
// Parameters occupy the front of the arena; locals follow, and a local's
// slot is always its arena index.
type Scope struct {
	arena  []Variable
	index  map[string][]int
	params int
	frames []*Frame
}

func New() *Scope {
	return &Scope{index: make(map[string][]int)}
}

// BindParam binds the next parameter. The i-th parameter gets slot -(3+i),
// leaving room for the saved %ebx, the saved %ebp and the return address.
func (s *Scope) BindParam(name string, kind Kind) Variable {
	if len(s.arena) != s.params {
		panic("symtab: parameters must be bound before locals")
	}
	v := Variable{Name: name, Kind: kind, Size: kind.Size(), Slot: -(3 + s.params)}
	s.push(v)
	s.params++
	return v
}

// Len is the number of live entries, parameters included.
func (s *Scope) Len() int { return len(s.arena) }

// Locals is the number of live one-word slots below the saved registers.
func (s *Scope) Locals() int { return len(s.arena) - s.params }

// Lookup resolves the innermost binding of name.
func (s *Scope) Lookup(name string) (Variable, error) {
	refs := s.index[name]
	if len(refs) == 0 {
		return Variable{}, diag.New(diag.ErrUnknownVariableReference, name)
	}
	return s.arena[refs[len(refs)-1]], nil
}

// Offset is v's byte offset from %esp for the current stack shape.
func (s *Scope) Offset(v Variable) int {
	if v.IsParam() {
		return (s.Locals() - v.Slot) * WordSize
	}
	return (len(s.arena) - 1 - v.Slot) * WordSize
}

// Address returns the %esp-relative operand for name.
func (s *Scope) Address(name string) (string, error) {
	v, err := s.Lookup(name)
	if err != nil {
		return "", err
	}
	return s.AddressOf(v), nil
}

// AddressOf returns the %esp-relative operand for v.
func (s *Scope) AddressOf(v Variable) string {
	return fmt.Sprintf("%d(%%esp)", s.Offset(v))
}

func (s *Scope) push(v Variable) {
	s.arena = append(s.arena, v)
	if v.Name != "" {
		s.index[v.Name] = append(s.index[v.Name], len(s.arena)-1)
	}
}

func (s *Scope) truncate(mark int) {
	for i := len(s.arena) - 1; i >= mark; i-- {
		name := s.arena[i].Name
		if name == "" {
			continue
		}
		refs := s.index[name]
		if len(refs) == 1 {
			delete(s.index, name)
		} else {
			s.index[name] = refs[:len(refs)-1]
		}
	}
	s.arena = s.arena[:mark]
}

// Enter opens a frame for one block. Slots declared through the frame are
// released by Exit, and only by Exit.
func (s *Scope) Enter() *Frame {
	f := &Frame{scope: s, mark: len(s.arena)}
	s.frames = append(s.frames, f)
	return f
}

// Frame owns the slots one block acquired.
type Frame struct {
	scope  *Scope
	mark   int
	count  int
	closed bool
}

// Declare binds a named local in the next slot.
func (f *Frame) Declare(name string, kind Kind) Variable {
	f.mustBeTop()
	v := Variable{Name: name, Kind: kind, Size: kind.Size(), Slot: f.scope.Len()}
	f.scope.push(v)
	f.count++
	return v
}

// Reserve takes an anonymous one-word slot. It is addressable through the
// returned Variable but never resolvable by name.
func (f *Frame) Reserve() Variable {
	f.mustBeTop()
	v := Variable{Kind: Int, Size: WordSize, Slot: f.scope.Len()}
	f.scope.push(v)
	f.count++
	return v
}

// Count is the number of slots declared through f.
func (f *Frame) Count() int { return f.count }

// Bytes is the stack space held by f.
func (f *Frame) Bytes() int { return f.count * WordSize }

// Exit releases f's slots and restores the enclosing bindings. Exiting a
// closed frame is a no-op.
func (f *Frame) Exit() {
	if f.closed {
		return
	}
	f.mustBeTop()
	f.scope.truncate(f.mark)
	f.scope.frames = f.scope.frames[:len(f.scope.frames)-1]
	f.closed = true
}

func (f *Frame) mustBeTop() {
	frames := f.scope.frames
	if f.closed || len(frames) == 0 || frames[len(frames)-1] != f {
		panic("symtab: frame used out of LIFO order")
	}
}
