package vecstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/vecstore/blobstore"
	"github.com/hupe1980/vecstore/metadata"
	"github.com/hupe1980/vecstore/persistence"
)

var (
	// ErrNotFound is returned for unknown collections and vector ids.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for malformed requests: empty vectors,
	// wrong dimensions, bad filters, non-positive k.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is returned when creating a collection that already exists.
	ErrConflict = errors.New("already exists")

	// ErrIO is returned when the blob store fails or holds corrupt data.
	ErrIO = errors.New("storage failure")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = fmt.Errorf("%w: k must be positive", ErrInvalidArgument)
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
// It matches ErrInvalidArgument with errors.Is.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ErrDimensionMismatch) Is(target error) bool {
	return target == ErrInvalidArgument
}

// translateError maps errors of the lower packages onto the root taxonomy,
// keeping the cause reachable through errors.Is/As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Already classified.
	for _, sentinel := range []error{ErrNotFound, ErrInvalidArgument, ErrConflict, ErrIO} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Filter evaluation and metadata validation.
	if errors.Is(err, metadata.ErrUnsupportedOperator) || errors.Is(err, metadata.ErrInvalidOperand) ||
		errors.Is(err, metadata.ErrInvalidValue) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	var ic *metadata.ErrIncompatibleComparison
	if errors.As(err, &ic) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Storage.
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, persistence.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return err
}

// ioError classifies a storage failure of op on collection name.
func ioError(op, name string, err error) error {
	return fmt.Errorf("%w: %s collection %q: %w", ErrIO, op, name, err)
}
