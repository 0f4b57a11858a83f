// Package pipeline is the join & derive stage library. A view is a Pipeline:
// a root collection plus an ordered list of stages drawn from a closed set
// (Match, Guard, Lookup, LookupOne, AddFields, Sort, Project). The executor
// type-switches over them; there is no reflection and no ambient viewer.
package pipeline

import (
	"vidtube.com/pkg/store"
)

// Env carries what every stage may depend on besides the records. Viewer is
// empty for anonymous callers.
type Env struct {
	Viewer string
}

type Stage interface {
	stage()
}

// Match keeps records satisfying Filter (filterEquals / filterAnd).
type Match struct {
	Filter store.Filter
}

// Rule is a visibility predicate. Filter is the same predicate expressed as
// a store filter so that a leading root Guard can be pushed into the store.
type Rule interface {
	Visible(doc store.Doc, viewer string) bool
	Filter(viewer string) store.Filter
}

// Guard drops records the viewer may not see. With Field set, the rule is
// evaluated against the sub-document at Field and a missing or empty
// sub-document counts as not visible.
type Guard struct {
	Rule  Rule
	Field string
}

// Lookup attaches to As every record of From whose ForeignField equals the
// record's LocalField (joinMany). LocalField may hold a key list, in which
// case PreserveOrder keeps the joined records in list order. Pipeline is run
// over the joined records before they are attached.
type Lookup struct {
	From          store.Collection
	LocalField    string
	ForeignField  string
	As            string
	Pipeline      []Stage
	PreserveOrder bool
}

// LookupOne is Lookup followed by unwinding a single match into As. When
// nothing matches As is set to nil, and with Required the record is dropped.
type LookupOne struct {
	From         store.Collection
	LocalField   string
	ForeignField string
	As           string
	Pipeline     []Stage
	Required     bool
}

type Field struct {
	Name string
	Fn   Deriver
}

// AddFields computes derived fields in declaration order.
type AddFields struct {
	Fields []Field
}

type Sort struct {
	Keys []store.SortKey
}

// Project whitelists (Include) or blacklists (Exclude) top-level fields.
// The key is always kept.
type Project struct {
	Include []string
	Exclude []string
}

func (Match) stage()     {}
func (Guard) stage()     {}
func (Lookup) stage()    {}
func (LookupOne) stage() {}
func (AddFields) stage() {}
func (Sort) stage()      {}
func (Project) stage()   {}

// Pipeline is a named, statically declared view shape over a root collection.
type Pipeline struct {
	Name   string
	From   store.Collection
	Stages []Stage
}

// filters reports whether s can remove records.
func filters(s Stage) bool {
	switch st := s.(type) {
	case Match, Guard:
		return true
	case LookupOne:
		return st.Required
	}
	return false
}

// Prefix is the shared filter fragment of p: every stage up to and including
// the last one that can drop records. Both the count pass and the page pass
// of joined-collection pagination execute exactly this fragment first.
func (p Pipeline) Prefix() []Stage {
	end := 0
	for i, s := range p.Stages {
		if filters(s) {
			end = i + 1
		}
	}
	return p.Stages[:end]
}

// head splits off the leading stages that can be pushed into a store query
// for viewer, returning the combined filter and the number of stages used.
func head(stages []Stage, viewer string) (store.Filter, int) {
	var f store.Filter
	n := 0
	for _, s := range stages {
		switch st := s.(type) {
		case Match:
			f = f.And(st.Filter...)
		case Guard:
			if st.Field != "" {
				return f, n
			}
			f = f.And(st.Rule.Filter(viewer)...)
		default:
			return f, n
		}
		n++
	}
	return f, n
}
