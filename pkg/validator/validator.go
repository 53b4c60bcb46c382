// Package validator envuelve go-playground/validator con nombres de campo JSON.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError campo que no pasó la validación.
type FieldError struct {
	Field string // ruta JSON, ej: lines[0].product_id
	Tag   string
	Param string
}

// Errors lista de campos inválidos; implementa error.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Field+": "+f.Reason())
	}
	return strings.Join(parts, "; ")
}

// Reason mensaje legible para la regla incumplida.
func (f FieldError) Reason() string {
	switch f.Tag {
	case "required":
		return "requerido"
	case "email":
		return "email inválido"
	case "uuid", "uuid4":
		return "identificador inválido"
	case "min":
		return "mínimo " + f.Param
	case "max":
		return "máximo " + f.Param
	case "oneof":
		return "debe ser uno de: " + f.Param
	default:
		return "inválido (" + f.Tag + ")"
	}
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Struct valida data según sus tags `validate`. Devuelve Errors o nil.
func Struct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe.Namespace()), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CreateSaleRequest.lines[0].product_id" -> "lines[0].product_id".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
