package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proboots/storefront/internal/errors"
	"github.com/proboots/storefront/internal/validation"
)

type customerRequest struct {
	Name  string `json:"name" validate:"required,fullname"`
	CPF   string `json:"cpf" validate:"required,cpf"`
	Phone string `json:"phone" validate:"required,brphone"`
}

type productRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Price      int64  `json:"price" validate:"gte=0"`
	Discount   int    `json:"discount,omitempty" validate:"gte=0,lte=100"`
	CoverImage string `json:"coverImage" validate:"required,imageref"`
}

func TestValidator_CustomerSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(customerRequest{
		Name:  "Maria Silva",
		CPF:   "123.456.789-09",
		Phone: "(99) 98530-6285",
	})
	assert.NoError(t, err)
}

func TestValidator_CustomerErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       customerRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "single word name",
			req:       customerRequest{Name: "Maria", CPF: "12345678909", Phone: "9998530628"},
			wantField: "name",
			wantMsg:   "must include first and last name",
		},
		{
			name:      "short cpf",
			req:       customerRequest{Name: "Maria Silva", CPF: "123.456.789", Phone: "9998530628"},
			wantField: "cpf",
			wantMsg:   "must contain 11 digits",
		},
		{
			name:      "short phone",
			req:       customerRequest{Name: "Maria Silva", CPF: "12345678909", Phone: "(99) 9853"},
			wantField: "phone",
			wantMsg:   "must contain 10 or 11 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, errors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_ImageRef(t *testing.T) {
	v := validation.New()

	tests := []struct {
		image string
		valid bool
	}{
		{"/banner1.png", true},
		{"https://ext.same-assets.com/4023899342/1.jpeg", true},
		{"http://localhost:3000/a.png", true},
		{"//cdn.example.com/a.png", false},
		{"ftp://example.com/a.png", false},
		{"banner.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			err := v.Validate(productRequest{Name: "Bota", Price: 100, CoverImage: tt.image})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidator_ProductRanges(t *testing.T) {
	v := validation.New()

	err := v.Validate(productRequest{Name: "Bota", Price: -1, Discount: 101, CoverImage: "/a.png"})
	require.Error(t, err)

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	details := domainErr.Details.(map[string]string)
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "discount")
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "12345678909", validation.Digits("123.456.789-09"))
	assert.Equal(t, "99985306285", validation.Digits("(99) 98530-6285"))
	assert.Equal(t, "", validation.Digits("abc"))
}
