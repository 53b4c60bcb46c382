package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type request struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=5"`
	Lines []line `json:"lines" validate:"dive"`
}

func TestStruct_Valido(t *testing.T) {
	err := Struct(request{
		Email: "a@b.co",
		Name:  "ok",
		Lines: []line{{ProductID: "8d7f3c1e-2b4a-4f6e-9a1b-0c2d3e4f5a6b"}},
	})
	assert.NoError(t, err)
}

func TestStruct_NombresJSON(t *testing.T) {
	err := Struct(request{Email: "no-es-email", Name: "demasiado largo", Lines: []line{{ProductID: "x"}}})
	require.Error(t, err)

	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)
	assert.Equal(t, "email", verrs[0].Field)
	assert.Equal(t, "email inválido", verrs[0].Reason())
	assert.Equal(t, "name", verrs[1].Field)
	assert.Equal(t, "máximo 5", verrs[1].Reason())
	assert.Equal(t, "lines[0].product_id", verrs[2].Field)
}
