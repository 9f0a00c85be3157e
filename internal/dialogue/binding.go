package dialogue

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State is the binding state of a session.
type State string

// State values double as statekit state ids.
const (
	StateUnbound = "unbound"
	StateBound   = "bound"
)

const (
	eventBind = "bind"
	eventTurn = "turn"
)

type bindingContext struct {
	Session string
}

// binding drives the UNBOUND -> BOUND transition. There is no way back and
// no terminal state.
type binding struct {
	interpreter *statekit.Interpreter[bindingContext]
}

func newBinding(bound bool, label string) (*binding, error) {
	initial := StateUnbound
	if bound {
		initial = StateBound
	}

	builder := statekit.NewMachine[bindingContext]("dialogue-binding").
		WithInitial(statekit.StateID(initial)).
		WithContext(bindingContext{Session: label})

	builder.State(StateUnbound).
		On(eventBind).Target(StateBound).
		Done()

	builder.State(StateBound).
		On(eventTurn).Target(StateBound).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("dialogue: build binding machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &binding{interpreter: interpreter}, nil
}

func (b *binding) current() State {
	return State(b.interpreter.State().Value)
}

func (b *binding) send(event string) {
	b.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
}
