package testfixtures

import (
	"fmt"
	"sync/atomic"
)

// IDGenerator yields a deterministic identifier sequence. Services prepend
// their own entity prefix (ses_, hld_, evt_), so the generator emits a bare
// zero-padded token unless a label is supplied.
type IDGenerator struct {
	label   string
	counter atomic.Uint64
}

// NewIDGenerator constructs a generator. A non-empty label is embedded in
// each token, which keeps IDs from different generators distinguishable in
// failure output.
func NewIDGenerator(label string) *IDGenerator {
	return &IDGenerator{label: label}
}

// Next returns the next token in the sequence.
func (g *IDGenerator) Next() string {
	n := g.counter.Add(1)
	if g.label == "" {
		return fmt.Sprintf("%04d", n)
	}
	return fmt.Sprintf("%s%04d", g.label, n)
}

// NextFunc adapts the generator for injection into components that take a
// func() string.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Reset rewinds the sequence so a fresh sub-test sees the same IDs.
func (g *IDGenerator) Reset() {
	g.counter.Store(0)
}
