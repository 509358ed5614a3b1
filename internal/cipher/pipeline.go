package cipher

import (
	"fmt"
	"strings"
)

// Chain is an ordered list of codec IDs applied one after another.
type Chain struct {
	Steps []string `json:"steps"`
}

// ParseChain splits a comma separated list of codec IDs.
func ParseChain(list string) Chain {
	var steps []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			steps = append(steps, part)
		}
	}
	return Chain{Steps: steps}
}

// Validate checks that every step names a registered codec.
func (c Chain) Validate() error {
	if len(c.Steps) == 0 {
		return fmt.Errorf("chain has no steps")
	}
	for i, id := range c.Steps {
		if _, ok := Lookup(id); !ok {
			return fmt.Errorf("step %d: %w: %s", i, ErrUnknownCodec, id)
		}
	}
	return nil
}

// Apply feeds text through each step in turn. Each step runs through the
// line-mode aggregator, and the first failing step's result is returned.
func (c Chain) Apply(text string, lineMode bool) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}
	res := Ok(text)
	for _, id := range c.Steps {
		codec, _ := Lookup(id)
		res = codec.Apply(res.Value(), lineMode)
		if !res.OK() {
			return res, nil
		}
	}
	return res, nil
}

// Reverse builds the chain that undoes c.
func (c Chain) Reverse() (Chain, error) {
	if err := c.Validate(); err != nil {
		return Chain{}, err
	}
	reversed := Chain{Steps: make([]string, len(c.Steps))}
	for i, id := range c.Steps {
		codec, _ := Lookup(id)
		if _, ok := Lookup(codec.Inverse); !ok {
			return Chain{}, fmt.Errorf("%w: %s", ErrNotReversible, id)
		}
		reversed.Steps[len(c.Steps)-1-i] = codec.Inverse
	}
	return reversed, nil
}

func (c Chain) String() string {
	return strings.Join(c.Steps, ",")
}
