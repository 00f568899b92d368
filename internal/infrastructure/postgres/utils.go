package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código de clase 23 (integrity constraint violation) que los repositorios
// traducen a errores de dominio.
const codeUniqueViolation = "23505"

// isUniqueViolation indica si el error es una violación de constraint único
// (se traduce a domain.ErrDuplicate en el repositorio que inserta).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
