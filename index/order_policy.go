package index

import (
	"github.com/jobala/bplus/util"
)

const (
	MIN_ORDER     = 4
	DEFAULT_ORDER = 5
)

// NewOrderPolicy returns the branching settings for a tree of the given order.
// Order is the maximum number of children of an internal node.
func NewOrderPolicy(order int) (*OrderPolicy, error) {
	p := &OrderPolicy{}
	if err := p.Configure(order); err != nil {
		return nil, err
	}

	return p, nil
}

func DefaultOrderPolicy() *OrderPolicy {
	p, _ := NewOrderPolicy(DEFAULT_ORDER)
	return p
}

// Configure replaces the policy's thresholds. Nodes read the policy on every
// operation, but their backing arrays keep the capacity they were built with,
// so a policy must not be reconfigured while nodes built from it are in use.
func (p *OrderPolicy) Configure(order int) error {
	if order < MIN_ORDER {
		return util.NewInvalidOrder(order, MIN_ORDER)
	}

	half := (order - 1) / 2
	halfPlus := order - half

	p.order = order
	p.half = half
	p.halfPlus = halfPlus
	p.minKeys = halfPlus - 1

	return nil
}

func (p *OrderPolicy) Order() int {
	return p.order
}

// Half is the number of keys a split hands to the new right sibling.
func (p *OrderPolicy) Half() int {
	return p.half
}

// HalfPlus is the number of keys a leaf keeps after a split.
func (p *OrderPolicy) HalfPlus() int {
	return p.halfPlus
}

// MinKeys is the underflow threshold for every non root node.
func (p *OrderPolicy) MinKeys() int {
	return p.minKeys
}

type OrderPolicy struct {
	order    int
	half     int
	halfPlus int
	minKeys  int
}
