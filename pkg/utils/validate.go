package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"vidtube.com/pkg/errno"
)

var Validator = validator.New()

func init() {
	_ = Validator.RegisterValidation("notblank", validators.NotBlank)
}

// Validate checks a request struct and reports every failed field as a
// single errno.ParamErr.
func Validate(req interface{}) error {
	err := Validator.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errno.ParamErr.WithMessage(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" failed "+fe.Tag())
	}
	return errno.ParamErr.WithMessage(strings.Join(msgs, "; "))
}
