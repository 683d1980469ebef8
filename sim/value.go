package sim

import (
	"fmt"
	"os"
)

// A Value is one signal sample. A Value is either empty or holds a number. An
// empty Value marks an input that no upstream block has produced yet.
type Value struct {
	present bool
	v       float64
}

// Present creates a Value that holds the number v.
func Present(v float64) Value {
	return Value{present: true, v: v}
}

// Empty creates a Value that holds nothing.
func Empty() Value {
	return Value{}
}

// IsPresent returns true if the Value holds a number.
func (v Value) IsPresent() bool {
	return v.present
}

// Float returns the number held by the Value. Float panics if the Value is
// empty. Callers that cannot rule out an empty Value should use Get.
func (v Value) Float() float64 {
	if !v.present {
		panic("reading an empty value")
	}
	return v.v
}

// Get returns the number held by the Value and whether the Value holds one.
func (v Value) Get() (float64, bool) {
	return v.v, v.present
}

// A SignalStore keeps the named values of one side of a block, either all
// the input ports or all the output ports. Ports must be declared before
// they are read or written. Declaration order is preserved.
type SignalStore struct {
	names  []string
	values map[string]Value
}

// NewSignalStore creates a SignalStore with the given ports declared.
func NewSignalStore(names ...string) *SignalStore {
	s := &SignalStore{
		values: make(map[string]Value),
	}

	for _, n := range names {
		s.Declare(n)
	}

	return s
}

// Declare adds a port to the store. The port starts empty.
func (s *SignalStore) Declare(name string) {
	if _, ok := s.values[name]; ok {
		panic("port " + name + " declared twice")
	}

	s.names = append(s.names, name)
	s.values[name] = Empty()
}

// Names returns the declared port names in declaration order.
func (s *SignalStore) Names() []string {
	return s.names
}

// Has returns true if the port is declared.
func (s *SignalStore) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Set stores a number on a declared port.
func (s *SignalStore) Set(name string, v float64) {
	s.portMustBeDeclared(name)
	s.values[name] = Present(v)
}

// Get returns the Value on a declared port.
func (s *SignalStore) Get(name string) Value {
	s.portMustBeDeclared(name)
	return s.values[name]
}

func (s *SignalStore) portMustBeDeclared(name string) {
	if _, ok := s.values[name]; !ok {
		errMsg := fmt.Sprintf("Port %s is not declared.\n", name)
		errMsg += "Declared ports include:\n"
		for _, n := range s.names {
			errMsg += fmt.Sprintf("\t%s\n", n)
		}
		fmt.Fprint(os.Stderr, errMsg)

		panic("port not declared")
	}
}

// A StateStore keeps the state variables of a stateful block as a pair of
// named-value stores. The current store holds the committed values that the
// rest of the model reads. The pending store holds the next-tick values
// written by AdvanceState. Commit copies pending over current, so committing
// a block whose state was not advanced this tick is a no-op.
type StateStore struct {
	names   []string
	current map[string]float64
	pending map[string]float64
}

// NewStateStore creates an empty StateStore.
func NewStateStore() *StateStore {
	return &StateStore{
		current: make(map[string]float64),
		pending: make(map[string]float64),
	}
}

// Declare adds a state variable with its time-zero value. Both the current
// and the pending value start at initial.
func (s *StateStore) Declare(name string, initial float64) {
	if _, ok := s.current[name]; ok {
		panic("state variable " + name + " declared twice")
	}

	s.names = append(s.names, name)
	s.current[name] = initial
	s.pending[name] = initial
}

// Names returns the declared state variable names in declaration order.
func (s *StateStore) Names() []string {
	return s.names
}

// Len returns the number of declared state variables.
func (s *StateStore) Len() int {
	return len(s.names)
}

// Has returns true if the state variable is declared.
func (s *StateStore) Has(name string) bool {
	_, ok := s.current[name]
	return ok
}

// Get returns the committed value of a state variable.
func (s *StateStore) Get(name string) float64 {
	s.varMustBeDeclared(name)
	return s.current[name]
}

// SetPending stores the next-tick value of a state variable. The committed
// value is untouched until Commit.
func (s *StateStore) SetPending(name string, v float64) {
	s.varMustBeDeclared(name)
	s.pending[name] = v
}

// Init overwrites both the committed and the pending value of a state
// variable. It is meant to be used from a block's Initialize.
func (s *StateStore) Init(name string, v float64) {
	s.varMustBeDeclared(name)
	s.current[name] = v
	s.pending[name] = v
}

// Commit copies every pending value into the current store.
func (s *StateStore) Commit() {
	for _, n := range s.names {
		s.current[n] = s.pending[n]
	}
}

func (s *StateStore) varMustBeDeclared(name string) {
	if _, ok := s.current[name]; !ok {
		panic("state variable " + name + " is not declared")
	}
}
