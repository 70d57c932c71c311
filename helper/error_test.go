package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Error message includes operation and cause", func(t *testing.T) {
		err := NewError("add commit", fmt.Errorf("commit hash is empty"))

		assert.Equal(t, "error in add commit: commit hash is empty", err.Error())
	})

	t.Run("Error unwraps to the cause", func(t *testing.T) {
		err := NewError("add commit", ErrDuplicateCommit)

		assert.ErrorIs(t, err, ErrDuplicateCommit)
	})

	t.Run("Nil cause still renders the operation", func(t *testing.T) {
		err := NewError("search", nil)

		assert.Equal(t, "error in search", err.Error())
	})
}

func TestFusionError(t *testing.T) {
	t.Run("Message carries both path errors", func(t *testing.T) {
		err := &FusionError{
			GraphErr:  errors.New("no graph query for type general"),
			VectorErr: errors.New("index unavailable"),
		}

		assert.Contains(t, err.Error(), "no graph query")
		assert.Contains(t, err.Error(), "index unavailable")
	})

	t.Run("Unwraps to the vector error", func(t *testing.T) {
		err := &FusionError{
			GraphErr:  errors.New("no graph query for type general"),
			VectorErr: NewError("vector search", ErrRetrievalTimeout),
		}

		assert.ErrorIs(t, err, ErrRetrievalTimeout)
	})
}
