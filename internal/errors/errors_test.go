package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodePersistence, http.StatusInternalServerError},
		{CodeStorageCorrupt, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("product %s not found", "prd-1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, "product prd-1 not found", err.Error())
}

func TestPersistence_WrapsCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Persistence(cause)

	assert.True(t, Is(err, ErrPersistence))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "could not save", err.Message)
	assert.Equal(t, "could not save: disk full", err.Error())
}

func TestError_WithDetailsKeepsCode(t *testing.T) {
	details := map[string]string{"name": "is required"}
	err := ErrValidation.WithDetails(details)

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, details, err.Details)
	assert.Nil(t, ErrValidation.Details)
}
