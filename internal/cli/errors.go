package cli

import (
	"errors"

	"blocktree/internal/mutate"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

func hintFor(err error) string {
	switch {
	case errors.Is(err, mutate.ErrCycleDetected):
		return "a block cannot move under itself or its own descendants"
	case errors.Is(err, mutate.ErrContainmentViolation):
		return "only container types accept children (see `blocktree types`); pass --containment=false to override"
	case errors.Is(err, mutate.ErrBlockNotFound), errors.Is(err, mutate.ErrParentNotFound):
		return "ids are scoped to --owner; list them with `blocktree list`"
	case errors.Is(err, mutate.ErrStoreFailure):
		return "the store may hold partial changes; run `blocktree doctor`"
	}
	return ""
}
