package reconcile

import (
	"fmt"

	"github.com/google/uuid"
)

// Op names one of the three independent store operations a reconciliation
// issues. The store offers no transaction across them, so failures are
// reported per operation.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// OpError wraps a store failure with the operation partition it happened in,
// so callers can report "deletes succeeded but inserts did not" instead of
// implying total failure.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Result partitions the next working set against the previous one. Every item
// of next lands in exactly one of ToInsert/ToUpdate; ToDelete holds the
// identifiers present only in previous.
type Result[T any] struct {
	ToInsert []T
	ToUpdate []T
	ToDelete []uuid.UUID
}

// Partition splits next into insert/update sets against previous and collects
// the identifiers to delete. identity returns an item's persisted identifier
// (nil for not-yet-persisted items); setOrder receives each surviving item's
// dense 1-based position in next, regardless of where it sat in previous.
// Partition judges identity and order only; field validation is the caller's
// job before invoking it.
func Partition[T any](previous, next []T, identity func(T) *uuid.UUID, setOrder func(*T, int)) Result[T] {
	prevIDs := make(map[uuid.UUID]struct{}, len(previous))
	for _, item := range previous {
		if id := identity(item); id != nil {
			prevIDs[*id] = struct{}{}
		}
	}

	var res Result[T]
	kept := make(map[uuid.UUID]struct{}, len(next))
	for i := range next {
		item := next[i]
		setOrder(&item, i+1)
		id := identity(item)
		if id == nil {
			res.ToInsert = append(res.ToInsert, item)
			continue
		}
		kept[*id] = struct{}{}
		if _, ok := prevIDs[*id]; ok {
			res.ToUpdate = append(res.ToUpdate, item)
		} else {
			// identifier the store never saw; treat as an insert so the
			// row is not silently lost
			res.ToInsert = append(res.ToInsert, item)
		}
	}

	for _, item := range previous {
		id := identity(item)
		if id == nil {
			continue
		}
		if _, ok := kept[*id]; !ok {
			res.ToDelete = append(res.ToDelete, *id)
		}
	}
	return res
}
