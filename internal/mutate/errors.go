package mutate

import (
	"errors"
	"fmt"

	"blocktree/internal/model"
)

var (
	ErrBlockNotFound        = errors.New("block not found")
	ErrParentNotFound       = errors.New("parent not found")
	ErrCycleDetected        = errors.New("cycle detected")
	ErrContainmentViolation = errors.New("containment violation")
	ErrStoreFailure         = errors.New("store failure")
	ErrInvalidArgument      = errors.New("invalid argument")
)

const (
	KindBlock  = "block"
	KindParent = "parent"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	switch target {
	case ErrBlockNotFound:
		return e.Kind == KindBlock
	case ErrParentNotFound:
		return e.Kind == KindParent
	default:
		return false
	}
}

func blockNotFound(id string) error  { return NotFoundError{Kind: KindBlock, ID: id} }
func parentNotFound(id string) error { return NotFoundError{Kind: KindParent, ID: id} }

// CycleError is returned when a block would become its own ancestor.
type CycleError struct {
	BlockID  string
	ParentID string
}

func (e CycleError) Error() string {
	if e.BlockID == e.ParentID {
		return fmt.Sprintf("cycle detected: cannot move %s into itself", e.BlockID)
	}
	return fmt.Sprintf("cycle detected: %s is a descendant of %s", e.ParentID, e.BlockID)
}

func (e CycleError) Is(target error) bool { return target == ErrCycleDetected }

// ContainmentError is returned when a non-container would acquire a child.
type ContainmentError struct {
	ParentID string
	Type     model.BlockType
}

func (e ContainmentError) Error() string {
	return fmt.Sprintf("containment violation: %s (%s) cannot hold children", e.ParentID, e.Type)
}

func (e ContainmentError) Is(target error) bool { return target == ErrContainmentViolation }

// StoreError wraps a failed store call. Work committed by earlier calls in
// the same operation is not rolled back.
type StoreError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreFailure }

func storeErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, ID: id, Err: err}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
