package sorter

import (
	"github.com/nibzard/tasksort/internal/method"
	"github.com/nibzard/tasksort/internal/value"
)

// scoreEpsilon absorbs float rounding when weighted contributions cancel.
const scoreEpsilon = 1e-9

// key is the precomputed comparison input of one attribute for one record.
type key struct {
	value     value.Value
	null      bool
	satisfied bool // value op target holds
}

// Comparator is a compiled sorting method. It is immutable and safe for
// concurrent use.
type Comparator struct {
	attrs []method.Attribute
}

// Compile compiles a validated method into a comparator.
func Compile(m *method.Method) *Comparator {
	return &Comparator{attrs: m.Attributes()}
}

// Len returns the number of compiled attributes.
func (c *Comparator) Len() int {
	return len(c.attrs)
}

// Compare orders two records: -1 when a sorts before b, 1 when after, and 0
// when the pair is tied and should keep its input order.
func (c *Comparator) Compare(a, b Record) (int, error) {
	ka, err := c.keys(a, nil)
	if err != nil {
		return 0, err
	}
	kb, err := c.keys(b, nil)
	if err != nil {
		return 0, err
	}
	return c.compareKeys(ka, kb), nil
}

// keys resolves every attribute of rec in sequence order. dst is reused when
// it has enough capacity.
func (c *Comparator) keys(rec Record, dst []key) ([]key, error) {
	if cap(dst) < len(c.attrs) {
		dst = make([]key, len(c.attrs))
	}
	dst = dst[:len(c.attrs)]
	for i := range c.attrs {
		attr := &c.attrs[i]
		r, err := Resolve(rec, attr)
		if err != nil {
			return nil, err
		}
		k := key{value: r.Value, null: r.Null}
		if !r.Null {
			k.satisfied = attr.Operator.Satisfied(value.Compare(r.Value, attr.Target))
		}
		dst[i] = k
	}
	return dst, nil
}

// contribution is the signed ranking signal of attribute i before weighting.
func (c *Comparator) contribution(i int, a, b key) int {
	if a.null || b.null {
		return 0
	}
	var cmp int
	switch {
	case a.satisfied && !b.satisfied:
		cmp = -1
	case !a.satisfied && b.satisfied:
		cmp = 1
	default:
		cmp = value.Compare(a.value, b.value)
	}
	if c.attrs[i].Reverse {
		cmp = -cmp
	}
	return cmp
}

func (c *Comparator) compareKeys(a, b []key) int {
	var (
		score     float64
		first     int
		stableTie bool
	)
	for i := range c.attrs {
		attr := &c.attrs[i]
		s := c.contribution(i, a[i], b[i])
		if s == 0 || attr.Weight == 0 {
			if attr.Stable {
				stableTie = true
			}
			continue
		}
		if first == 0 {
			first = s
		}
		score += float64(s) * attr.Weight
	}

	switch {
	case score > scoreEpsilon:
		return 1
	case score < -scoreEpsilon:
		return -1
	case stableTie:
		return 0
	}
	return first
}
