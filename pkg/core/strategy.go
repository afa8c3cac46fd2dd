package core

import (
	"fmt"
	"reflect"
	"sort"
)

// Strategy reconciles imported records into the current collection.
//
// Merge receives a private copy of the current collection and returns the
// collection that replaces it. The result is always complete: a non-nil
// warning reports a condition the strategy recovered from locally (it wraps
// ErrMergeFallback) and never means the merge was abandoned halfway.
type Strategy[T any] interface {
	Name() string
	Merge(current, imported []T) (merged []T, warning error)
}

// Strategy names accepted by StrategyByName.
const (
	StrategyReplace      = "replace"
	StrategyAppend       = "append"
	StrategySkipExisting = "skip-existing"
	StrategyMergeByID    = "merge-by-id"
)

type replaceStrategy[T any] struct{}

// Replace discards the current records and keeps the imported ones in order.
// It is the default strategy of a Context.
func Replace[T any]() Strategy[T] { return replaceStrategy[T]{} }

func (replaceStrategy[T]) Name() string { return StrategyReplace }

func (replaceStrategy[T]) Merge(_, imported []T) ([]T, error) {
	return append(make([]T, 0, len(imported)), imported...), nil
}

type appendStrategy[T any] struct{}

// Append adds every imported record after the current ones.
// Duplicates are neither detected nor removed.
func Append[T any]() Strategy[T] { return appendStrategy[T]{} }

func (appendStrategy[T]) Name() string { return StrategyAppend }

func (appendStrategy[T]) Merge(current, imported []T) ([]T, error) {
	return appendAll(current, imported), nil
}

func appendAll[T any](current, imported []T) []T {
	merged := make([]T, 0, len(current)+len(imported))
	merged = append(merged, current...)
	return append(merged, imported...)
}

type skipExistingStrategy[T any] struct {
	equal func(a, b T) bool
}

// SkipExisting appends imported records that are not already present.
// Presence is decided by equal, or by reflect.DeepEqual when equal is nil.
// Records appended earlier in the same merge count as present, so duplicates
// inside the imported sequence are dropped too.
func SkipExisting[T any](equal func(a, b T) bool) Strategy[T] {
	if equal == nil {
		equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	return skipExistingStrategy[T]{equal: equal}
}

func (skipExistingStrategy[T]) Name() string { return StrategySkipExisting }

func (s skipExistingStrategy[T]) Merge(current, imported []T) ([]T, error) {
	merged := append(make([]T, 0, len(current)+len(imported)), current...)
	for _, item := range imported {
		if !s.contains(merged, item) {
			merged = append(merged, item)
		}
	}
	return merged, nil
}

func (s skipExistingStrategy[T]) contains(items []T, target T) bool {
	for _, item := range items {
		if s.equal(item, target) {
			return true
		}
	}
	return false
}

type mergeByIDStrategy[T any, K comparable] struct {
	extract func(T) (K, bool)
}

// MergeByID replaces current records whose ID matches an imported record,
// keeping their position, and appends imported records with new IDs.
//
// extract returns a record's ID and whether it could be determined. When
// extract is nil, records must implement Identifiable[K]. If any record's ID
// cannot be extracted, the whole imported sequence is appended unchanged and
// a warning wrapping ErrMergeFallback is returned.
func MergeByID[T any, K comparable](extract func(T) (K, bool)) Strategy[T] {
	if extract == nil {
		extract = func(item T) (K, bool) {
			if id, ok := any(item).(Identifiable[K]); ok {
				return id.RecordID(), true
			}
			var zero K
			return zero, false
		}
	}
	return mergeByIDStrategy[T, K]{extract: extract}
}

func (mergeByIDStrategy[T, K]) Name() string { return StrategyMergeByID }

func (s mergeByIDStrategy[T, K]) Merge(current, imported []T) ([]T, error) {
	if len(imported) == 0 {
		return append(make([]T, 0, len(current)), current...), nil
	}

	// IDs are extracted up front so a failure falls back before anything moves.
	currentIDs, err := s.ids(current)
	if err != nil {
		return appendAll(current, imported), fmt.Errorf("%w: %w", ErrMergeFallback, err)
	}
	importedIDs, err := s.ids(imported)
	if err != nil {
		return appendAll(current, imported), fmt.Errorf("%w: %w", ErrMergeFallback, err)
	}

	merged := append(make([]T, 0, len(current)+len(imported)), current...)
	mergedIDs := append(make([]K, 0, cap(merged)), currentIDs...)
	for i, item := range imported {
		id := importedIDs[i]
		if pos := indexOf(mergedIDs, id); pos >= 0 {
			merged[pos] = item
			continue
		}
		merged = append(merged, item)
		mergedIDs = append(mergedIDs, id)
	}
	return merged, nil
}

func (s mergeByIDStrategy[T, K]) ids(items []T) ([]K, error) {
	ids := make([]K, len(items))
	for i, item := range items {
		id, ok := s.extract(item)
		if !ok {
			return nil, fmt.Errorf("cannot extract id from record %d (%T)", i, item)
		}
		ids[i] = id
	}
	return ids, nil
}

func indexOf[K comparable](ids []K, id K) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

// StrategyByName builds the strategies that need no configuration:
// "replace", "append" and "skip-existing" (structural equality).
// MergeByID needs an extractor and is built with MergeByID directly.
func StrategyByName[T any](name string) (Strategy[T], error) {
	switch name {
	case StrategyReplace, "":
		return Replace[T](), nil
	case StrategyAppend:
		return Append[T](), nil
	case StrategySkipExisting:
		return SkipExisting[T](nil), nil
	case StrategyMergeByID:
		return nil, fmt.Errorf("%w: strategy %q requires an id extractor", ErrValidation, name)
	}
	return nil, fmt.Errorf("%w: unknown strategy %q (known: %v)", ErrValidation, name, StrategyNames())
}

// StrategyNames lists every built-in strategy name, sorted.
func StrategyNames() []string {
	names := []string{StrategyReplace, StrategyAppend, StrategySkipExisting, StrategyMergeByID}
	sort.Strings(names)
	return names
}
