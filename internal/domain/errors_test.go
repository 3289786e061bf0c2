package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageParts(t *testing.T) {
	err := Wrap(CodeLoading, "data/raw/contract.pdf", errors.New("short read"))
	assert.Contains(t, err.Error(), "LOADING")
	assert.Contains(t, err.Error(), "data/raw/contract.pdf")
	assert.Contains(t, err.Error(), "short read")
}

func TestCodeOf(t *testing.T) {
	err := Errorf(CodeSplitting, "a.pdf", "window %d too small", 0)
	assert.Equal(t, CodeSplitting, CodeOf(err))

	wrapped := fmt.Errorf("stage failed: %w", err)
	assert.Equal(t, CodeSplitting, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeSplitting))
	assert.False(t, IsCode(wrapped, CodeStorage))

	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeLedgerUnavailable, "", cause)

	assert.True(t, errors.Is(err, &Error{Code: CodeLedgerUnavailable}))
	assert.False(t, errors.Is(err, &Error{Code: CodeRetrieval}))
	assert.True(t, errors.Is(err, cause), "cause should stay reachable through Unwrap")
}
