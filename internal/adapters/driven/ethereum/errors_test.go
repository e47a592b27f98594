package ethereum

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

func TestIsRangeLimit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("query returned more than 10000 results"), true},
		{errors.New("exceed maximum block range: 5000"), true},
		{errors.New("Block range is too large"), true},
		{fmt.Errorf("wrapped: %w", domain.ErrRangeLimited), true},
		{errors.New("connection refused"), false},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRangeLimit(tt.err), "%v", tt.err)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("provider message kept", func(t *testing.T) {
		err := WrapError("addDocHash", errors.New("execution reverted: only exporters"))
		assert.ErrorIs(t, err, domain.ErrLedger)
		assert.Equal(t, "execution reverted: only exporters", err.Error())

		var lerr *Error
		assert.True(t, errors.As(err, &lerr))
		assert.Equal(t, "addDocHash", lerr.Method)
	})

	t.Run("passthrough", func(t *testing.T) {
		assert.Nil(t, WrapError("x", nil))
		assert.Equal(t, context.Canceled, WrapError("x", context.Canceled))
		assert.Equal(t, domain.ErrSignatureDeclined, WrapError("x", domain.ErrSignatureDeclined))
	})
}

func TestWrapQueryError(t *testing.T) {
	assert.ErrorIs(t, wrapQueryError(errors.New("block range too wide")), domain.ErrRangeLimited)
	assert.ErrorIs(t, wrapQueryError(errors.New("503 service unavailable")), domain.ErrLedger)
}
