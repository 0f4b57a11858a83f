package store

type Op int

const (
	OpEq Op = iota
	OpNe
	OpIn
	OpOr
)

// Cond is one predicate of a Filter. For OpOr, Any holds the alternatives
// and Field/Value are unused.
type Cond struct {
	Field string
	Op    Op
	Value interface{}
	Any   []Filter
}

// Filter is a conjunction of conditions. The empty filter matches everything.
type Filter []Cond

func Eq(field string, value interface{}) Cond { return Cond{Field: field, Op: OpEq, Value: value} }

func Ne(field string, value interface{}) Cond { return Cond{Field: field, Op: OpNe, Value: value} }

func In(field string, values []string) Cond { return Cond{Field: field, Op: OpIn, Value: values} }

func Or(alternatives ...Filter) Cond { return Cond{Op: OpOr, Any: alternatives} }

func Where(conds ...Cond) Filter { return Filter(conds) }

func (f Filter) And(conds ...Cond) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

func (f Filter) Match(d Doc) bool {
	for _, c := range f {
		if !c.Match(d) {
			return false
		}
	}
	return true
}

func (c Cond) Match(d Doc) bool {
	switch c.Op {
	case OpOr:
		for _, alt := range c.Any {
			if alt.Match(d) {
				return true
			}
		}
		return false
	case OpIn:
		v := refValue(d, c.Field)
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, want := range c.Value.([]string) {
			if want == s {
				return true
			}
		}
		return false
	case OpNe:
		return !equal(refValue(d, c.Field), c.Value)
	default:
		return equal(refValue(d, c.Field), c.Value)
	}
}

// refValue reads a field for comparison, collapsing joined documents back
// to their key so that filters keep working after a lookup replaced a
// reference.
func refValue(d Doc, field string) interface{} {
	v, _ := d.Get(field)
	if sub, ok := v.(Doc); ok {
		if sub == nil {
			return nil
		}
		return sub.Key()
	}
	return v
}

func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Compare(a, b) == 0 && sameKind(a, b)
}

func sameKind(a, b interface{}) bool {
	switch a.(type) {
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	}
	return true
}
