package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createProductForm struct {
	Title string `validate:"required,min=1,max=500"`
	Price int64  `validate:"gte=0"`
	Stock int    `validate:"gte=0"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(createProductForm{Title: "Bàn ghế gỗ", Price: 99000, Stock: 3})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(createProductForm{Price: -1})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Title"])
	assert.Equal(t, "must be greater than or equal to 0", fields["Price"])
	assert.NotContains(t, fields, "Stock")

	assert.Contains(t, err.Error(), "Title")
	assert.Contains(t, err.Error(), "Price")
}

func TestValidate_EmailTag(t *testing.T) {
	type loginForm struct {
		Email string `validate:"required,email"`
	}

	err := Validate(loginForm{Email: "not-an-email"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}
