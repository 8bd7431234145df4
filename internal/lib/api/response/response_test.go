package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type form struct {
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=3"`
}

func TestValidationError(t *testing.T) {
	err := validator.New().Struct(form{Email: "nope", Age: 1})
	res := ValidationError(err)

	assert.False(t, res.Success)
	assert.Equal(t, map[string]string{"Email": "email", "Age": "gte"}, res.Data)
}

func TestValidationErrorPlain(t *testing.T) {
	res := ValidationError(errors.New("bad json"))
	assert.Equal(t, Error("bad json"), res)
}
