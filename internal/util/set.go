// Package util holds small data-structure helpers shared across the grammar,
// automaton, and parse packages: sets with optional associated values, a
// simple stack, and a handful of string-formatting conveniences.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// ISet is a generic, unordered collection of comparable-by-value elements.
type ISet[E any] interface {
	// Elements returns the set's members in no particular order.
	Elements() []E

	// Add adds the given element to the set. No effect if already present.
	Add(element E)

	// AddAll adds every element of s2 to the set.
	AddAll(s2 ISet[E])

	// Remove removes the given element. No effect if not present.
	Remove(element E)

	// Has reports whether the element is in the set.
	Has(element E) bool

	// Len returns the number of elements.
	Len() int

	// Copy returns an independent duplicate of the set.
	Copy() ISet[E]

	// Equal reports whether o is a set with the same elements, ignoring
	// any values associated with a VSet.
	Equal(o any) bool

	// String renders the set contents in unspecified order.
	String() string

	// StringOrdered renders the set contents sorted alphabetically; this
	// is the representation used as a canonical dedup key throughout the
	// automaton package.
	StringOrdered() string

	// Union returns a new set holding every element of s and s2.
	Union(s2 ISet[E]) ISet[E]

	// Intersection returns a new set holding elements present in both.
	Intersection(s2 ISet[E]) ISet[E]

	// Difference returns a new set holding elements of s absent from s2.
	Difference(s2 ISet[E]) ISet[E]

	// DisjointWith reports whether s and s2 share no elements.
	DisjointWith(s2 ISet[E]) bool

	// Empty reports whether the set has no elements.
	Empty() bool

	// Any reports whether some element satisfies predicate.
	Any(predicate func(v E) bool) bool
}

// VSet is a set that additionally maps each element to a data value, used
// throughout the automaton package to associate an item-set's string key with
// the actual item-set it denotes.
type VSet[E any, V any] interface {
	ISet[E]

	// Set assigns data to element, adding element if not already present.
	Set(element E, data V)

	// Get retrieves the data associated with element, or the zero value
	// of V if element is not present.
	Get(element E) V
}

// SVSet is a VSet keyed by string, implemented directly as a map. It is the
// workhorse set type of this module: item-set and state dedup keys are
// strings, and the associated value is the actual item or item-set struct.
type SVSet[V any] map[string]V

// NewSVSet creates an SVSet, optionally seeded from existing maps.
func NewSVSet[V any](of ...map[string]V) SVSet[V] {
	s := SVSet[V](map[string]V{})
	for _, m := range of {
		for k := range m {
			s.Set(k, m[k])
		}
	}
	return s
}

func (s SVSet[V]) Copy() ISet[string] {
	return NewSVSet(s)
}

func (s SVSet[V]) Add(idx string) {
	var zero V
	s[idx] = zero
}

func (s SVSet[V]) Set(idx string, val V) {
	s[idx] = val
}

func (s SVSet[V]) Get(idx string) V {
	return s[idx]
}

func (s SVSet[V]) Has(idx string) bool {
	_, ok := s[idx]
	return ok
}

func (s SVSet[V]) Remove(idx string) {
	delete(s, idx)
}

func (s SVSet[V]) Len() int {
	return len(s)
}

func (s SVSet[V]) Elements() []string {
	elems := make([]string, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	return elems
}

// Slice is an alias for Elements, for call sites that read more naturally
// asking for a "slice" of keys than a set's "elements".
func (s SVSet[V]) Slice() []string {
	return s.Elements()
}

func (s SVSet[V]) AddAll(s2 ISet[string]) {
	if valued, ok := s2.(VSet[string, V]); ok {
		for _, k := range valued.Elements() {
			s.Set(k, valued.Get(k))
		}
		return
	}
	for _, k := range s2.Elements() {
		s.Add(k)
	}
}

func (s SVSet[V]) Union(s2 ISet[string]) ISet[string] {
	newSet := NewSVSet(s)
	newSet.AddAll(s2)
	return newSet
}

func (s SVSet[V]) Intersection(s2 ISet[string]) ISet[string] {
	newSet := NewSVSet[V]()
	for k := range s {
		if s2.Has(k) {
			newSet.Set(k, s[k])
		}
	}
	return newSet
}

func (s SVSet[V]) Difference(o ISet[string]) ISet[string] {
	newSet := NewSVSet(s)
	for _, k := range o.Elements() {
		newSet.Remove(k)
	}
	return newSet
}

func (s SVSet[V]) DisjointWith(o ISet[string]) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

func (s SVSet[V]) Empty() bool {
	return len(s) == 0
}

func (s SVSet[V]) Any(predicate func(v string) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

func (s SVSet[V]) StringOrdered() string {
	return joinSorted(s.Elements())
}

func (s SVSet[V]) String() string {
	return joinUnordered(s.Elements())
}

func (s SVSet[V]) Equal(o any) bool {
	other, ok := asStringSet(o)
	if !ok {
		return false
	}
	if s.Len() != other.Len() {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// StringSet is a plain set of strings with no associated value.
type StringSet map[string]bool

func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

func StringSetOf(sl []string) StringSet {
	s := NewStringSet()
	for _, v := range sl {
		s.Add(v)
	}
	return s
}

func (s StringSet) Copy() ISet[string] {
	newS := NewStringSet()
	for k := range s {
		newS[k] = true
	}
	return newS
}

func (s StringSet) Union(o ISet[string]) ISet[string] {
	newSet := NewStringSet()
	newSet.AddAll(s)
	newSet.AddAll(o)
	return newSet
}

func (s StringSet) Intersection(o ISet[string]) ISet[string] {
	newSet := NewStringSet()
	for k := range s {
		if o.Has(k) {
			newSet.Add(k)
		}
	}
	return newSet
}

func (s StringSet) Difference(o ISet[string]) ISet[string] {
	newSet := NewStringSet()
	newSet.AddAll(s)
	for _, k := range o.Elements() {
		newSet.Remove(k)
	}
	return newSet
}

func (s StringSet) DisjointWith(o ISet[string]) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}

func (s StringSet) Empty() bool {
	return len(s) == 0
}

func (s StringSet) Any(predicate func(v string) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Remove(value string) {
	delete(s, value)
}

func (s StringSet) Len() int {
	return len(s)
}

func (s StringSet) AddAll(s2 ISet[string]) {
	for _, e := range s2.Elements() {
		s.Add(e)
	}
}

func (s StringSet) Elements() []string {
	if s == nil {
		return nil
	}
	sl := make([]string, 0, len(s))
	for e := range s {
		sl = append(sl, e)
	}
	return sl
}

func (s StringSet) StringOrdered() string {
	return joinSorted(s.Elements())
}

func (s StringSet) String() string {
	return joinUnordered(s.Elements())
}

func (s StringSet) Equal(o any) bool {
	other, ok := asStringSet(o)
	if !ok {
		return false
	}
	if s.Len() != other.Len() {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// KeySet is a set over any comparable type, for dedup of non-string
// identifiers (e.g. numbered states) without forcing a string conversion.
type KeySet[E comparable] map[E]bool

func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	s := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

func KeySetOf[E comparable](sl []E) KeySet[E] {
	s := NewKeySet[E]()
	for _, v := range sl {
		s.Add(v)
	}
	return s
}

func (s KeySet[E]) Add(v E)    { s[v] = true }
func (s KeySet[E]) Remove(v E) { delete(s, v) }
func (s KeySet[E]) Has(v E) bool {
	_, ok := s[v]
	return ok
}
func (s KeySet[E]) Len() int { return len(s) }
func (s KeySet[E]) Elements() []E {
	sl := make([]E, 0, len(s))
	for e := range s {
		sl = append(sl, e)
	}
	return sl
}
func (s KeySet[E]) AddAll(o ISet[E]) {
	for _, e := range o.Elements() {
		s.Add(e)
	}
}
func (s KeySet[E]) Copy() ISet[E] {
	newS := NewKeySet[E]()
	for k := range s {
		newS[k] = true
	}
	return newS
}
func (s KeySet[E]) Union(o ISet[E]) ISet[E] {
	newSet := NewKeySet[E]()
	newSet.AddAll(s)
	newSet.AddAll(o)
	return newSet
}
func (s KeySet[E]) Intersection(o ISet[E]) ISet[E] {
	newSet := NewKeySet[E]()
	for k := range s {
		if o.Has(k) {
			newSet.Add(k)
		}
	}
	return newSet
}
func (s KeySet[E]) Difference(o ISet[E]) ISet[E] {
	newSet := NewKeySet[E]()
	newSet.AddAll(s)
	for _, k := range o.Elements() {
		newSet.Remove(k)
	}
	return newSet
}
func (s KeySet[E]) DisjointWith(o ISet[E]) bool {
	for k := range s {
		if o.Has(k) {
			return false
		}
	}
	return true
}
func (s KeySet[E]) Empty() bool { return len(s) == 0 }
func (s KeySet[E]) Any(predicate func(v E) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}
func (s KeySet[E]) String() string {
	parts := make([]string, 0, len(s))
	for k := range s {
		parts = append(parts, fmt.Sprintf("%v", k))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (s KeySet[E]) StringOrdered() string {
	parts := make([]string, 0, len(s))
	for k := range s {
		parts = append(parts, fmt.Sprintf("%v", k))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
func (s KeySet[E]) Equal(o any) bool {
	other, ok := o.(ISet[E])
	if !ok {
		return false
	}
	if s.Len() != other.Len() {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

func asStringSet(o any) (ISet[string], bool) {
	if s, ok := o.(ISet[string]); ok {
		return s, true
	}
	if ptr, ok := o.(*ISet[string]); ok && ptr != nil {
		return *ptr, true
	}
	return nil, false
}

func joinSorted(elems []string) string {
	cp := make([]string, len(elems))
	copy(cp, elems)
	sort.Strings(cp)
	return "{" + strings.Join(cp, ", ") + "}"
}

func joinUnordered(elems []string) string {
	return "{" + strings.Join(elems, ", ") + "}"
}

// OrderedKeys returns the keys of m sorted alphabetically, giving
// deterministic iteration order over otherwise unordered Go maps.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Alphabetized returns the elements of s sorted according to their natural
// ordering. T must be an ordered string-like type.
func Alphabetized[T ~string](s ISet[T]) []T {
	elems := s.Elements()
	sort.Slice(elems, func(i, j int) bool { return elems[i] < elems[j] })
	return elems
}
