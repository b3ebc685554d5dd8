package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordForm struct {
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

var passwordRules = []Rule{
	{Field: "Password", Tag: "required", Message: "Password is required"},
	{Field: "Password", Tag: "min", Message: "Password must be at least 8 characters"},
	{Field: "ConfirmPassword", Tag: "eqfield", Message: "Passwords do not match"},
}

func TestFirstMessage(t *testing.T) {
	tests := []struct {
		name string
		form passwordForm
		want string
	}{
		{name: "valid", form: passwordForm{Password: "longenough", ConfirmPassword: "longenough"}},
		{name: "empty", form: passwordForm{}, want: "Password is required"},
		{name: "short and mismatched", form: passwordForm{Password: "short", ConfirmPassword: "other"}, want: "Password must be at least 8 characters"},
		{name: "mismatch", form: passwordForm{Password: "longenough", ConfirmPassword: "different"}, want: "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validator.FirstMessage(tt.form, passwordRules, "invalid"))
		})
	}
}

func TestFirstMessageFallback(t *testing.T) {
	got := Validator.FirstMessage(passwordForm{}, []Rule{{Field: "Other", Tag: "required", Message: "x"}}, "invalid")
	assert.Equal(t, "invalid", got)
}

func TestValidate(t *testing.T) {
	errs := Validator.Validate(passwordForm{Password: "short", ConfirmPassword: "short"})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "Password", errs[0].FailedField)
		assert.Equal(t, "min", errs[0].Tag)
		assert.Equal(t, "short", errs[0].Value)
	}
}
