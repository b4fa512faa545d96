package base

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNotFound проверяет является ли ошибка "строка не найдена"
// для pgx и для database/sql
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
