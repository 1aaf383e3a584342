package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SubmitRequest is the body of POST /submit. Games stay raw until the
// tickets validator has looked at them.
type SubmitRequest struct {
	FullName string  `json:"fullName" validate:"required"`
	Games    [][]any `json:"games" validate:"required,min=1"`
}

type SubmitResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (r *SubmitRequest) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
	return validate.Struct(r)
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
