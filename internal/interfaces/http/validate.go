package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia compartida del validador de DTOs (puerta de entrada: el
// núcleo asume inputs bien formados).
var validate = validator.New(validator.WithRequiredStructEnabled())

// validationErrors traduce los errores del validador a un mapa campo ->
// mensajes, con el nombre del campo en snake_case como viaja en el JSON.
func validationErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = []string{"cuerpo inválido"}
		return out
	}
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		out[field] = append(out[field], "falla la regla '"+fe.Tag()+"'")
	}
	return out
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
