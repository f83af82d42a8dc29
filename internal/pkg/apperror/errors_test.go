package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", ErrInvalidInput, http.StatusBadRequest},
		{"not found", ErrFavoriteNotFound, http.StatusNotFound},
		{"conflict", ErrFavoriteExists, http.StatusConflict},
		{"forbidden", ErrForeignFavorites, http.StatusForbidden},
		{"internal", Internal(errors.New("boom"), "сбой"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("layer: %w", ErrUserNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusOf(tc.err))
		})
	}
}

func TestIsClassified(t *testing.T) {
	assert.True(t, IsClassified(ErrFavoriteExists))
	assert.True(t, IsClassified(fmt.Errorf("wrap: %w", ErrForeignFavorites)))
	assert.False(t, IsClassified(Internal(errors.New("db down"), "сбой")))
	assert.False(t, IsClassified(errors.New("db down")))
}

func TestErrorsIs_MatchesByCodeAndMessage(t *testing.T) {
	copyErr := New(ErrCodeNotFound, ErrFavoriteNotFound.Message)
	assert.ErrorIs(t, copyErr, ErrFavoriteNotFound)
	assert.NotErrorIs(t, ErrActivityNotFound, ErrFavoriteNotFound)
}

func TestPublicMessage_HidesCause(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "не удалось получить избранное")
	assert.Equal(t, "не удалось получить избранное", PublicMessage(err))
	assert.Equal(t, "внутренняя ошибка сервера", PublicMessage(errors.New("sql: no rows")))
}
