package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid input")
	// ErrPartialUpdate — пакетное обновление затронуло меньше записей, чем запрошено.
	ErrPartialUpdate = errors.New("partial batch update")
)

// SQLSTATE нарушения уникального ограничения.
const pqUniqueViolation = "23505"

// IsUniqueViolation сообщает, что ошибка PostgreSQL вызвана уникальным ограничением.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
