package dialogue

// Transcript is an append-only, ordered log of turns. The zero value is an
// empty transcript. It is not safe for concurrent use; Session guards it.
type Transcript struct {
	turns []Turn
}

// Append adds turns at the end in the given order.
func (t *Transcript) Append(turns ...Turn) {
	for _, turn := range turns {
		t.turns = append(t.turns, turn.clone())
	}
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the log.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	for i, turn := range t.turns {
		out[i] = turn.clone()
	}
	return out
}

// Last returns the most recent turn.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1].clone(), true
}
