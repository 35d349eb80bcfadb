package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Email        string `validate:"required,email"`
	Password     string `validate:"min=8"`
	RefreshToken string `validate:"required"`
}

func TestBindError_FieldErrors(t *testing.T) {
	err := validator.New().Struct(bindTarget{Email: "nope", Password: "short"})

	resp := BindError(err)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "email must be a valid email address", resp.Message["email"])
	assert.Equal(t, "password must be at least 8 characters", resp.Message["password"])
	assert.Equal(t, "refresh_token is required", resp.Message["refresh_token"])
}

func TestBindError_Malformed(t *testing.T) {
	resp := BindError(errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "invalid request body", resp.Message["error"])
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "name", snakeCase("Name"))
	assert.Equal(t, "refresh_token", snakeCase("RefreshToken"))
}
