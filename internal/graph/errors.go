package graph

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/activity-favorites/internal/logger"
	"github.com/ignatzorin/activity-favorites/internal/pkg/apperror"
)

// publicError отдаёт клиенту код и HTTP статус в extensions.
type publicError struct {
	message string
	code    apperror.ErrorCode
	status  int
}

func (e *publicError) Error() string { return e.message }

// Extensions реализует gqlerrors.ExtendedError.
func (e *publicError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":   string(e.code),
		"status": e.status,
	}
}

// toPublic приводит ошибку сервиса к клиентскому виду. Внутренние детали
// не покидают сервер.
func toPublic(op string, err error) error {
	if err == nil {
		return nil
	}
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err, "внутренняя ошибка сервера")
	}
	if appErr.Code == apperror.ErrCodeInternal {
		logger.Component("graphql").WithFields(logrus.Fields{
			"op":    op,
			"error": err.Error(),
		}).Error("ошибка резолвера")
	}
	return &publicError{
		message: apperror.PublicMessage(appErr),
		code:    appErr.Code,
		status:  appErr.HTTPStatus,
	}
}

func parseID(raw interface{}, name string) (uuid.UUID, error) {
	s, _ := raw.(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperror.BadRequest("некорректный идентификатор " + name)
	}
	return id, nil
}

func requireViewer(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.ErrUnauthorized
	}
	return nil
}
