package apierrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewBusinessError(ErrCodeProductNotFound, "missing", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CategoryBusiness, err.Category)
	assert.Contains(t, err.Error(), "PRODUCT_NOT_FOUND")
}

func TestNewAppErrorDerivesCategory(t *testing.T) {
	assert.Equal(t, CategoryBusiness, NewAppError(ErrCodeDuplicateProductName, "dup", nil).Category)
	assert.Equal(t, CategoryApplication, NewAppError(ErrCodeRequestValidation, "bad", nil).Category)
}

func TestWithContext(t *testing.T) {
	err := NewApplicationError(ErrCodeForbidden, "no", nil).WithContext("role", "customer")

	var target *AppError
	require.True(t, errors.As(error(err), &target))
	assert.Equal(t, "customer", target.Context["role"])
}

func TestHTTPStatus(t *testing.T) {
	cases := map[string]struct {
		err  *AppError
		want int
	}{
		"not found":    {NewAppError(ErrCodeProductNotFound, "", nil), 404},
		"duplicate":    {NewAppError(ErrCodeDuplicateProductName, "", nil), 400},
		"forbidden":    {NewAppError(ErrCodeForbidden, "", nil), 403},
		"panic":        {NewAppError(ErrCodeSystemPanic, "", nil), 500},
		"new business": {NewBusinessError("SOMETHING_ELSE", "", nil), 400},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
