// Package httpapi — respond.go содержит помощники для JSON-ответов
// и маппинг ошибок сервиса на HTTP-статусы.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/common"
)

// maxBodyBytes — предел тела запроса.
const maxBodyBytes = 1 << 20

// ErrorBody — тело ответа с ошибкой.
type ErrorBody struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// WriteJSON пишет v как JSON с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Не удалось записать JSON-ответ")
	}
}

// WriteError переводит ошибку в статус и пишет её текст.
// Внутренние ошибки наружу не отдаются, только в лог.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	body := ErrorBody{Error: err.Error()}
	switch status {
	case http.StatusServiceUnavailable:
		body = ErrorBody{Error: "storage is temporarily unavailable, try again", Retryable: true}
		log.WithError(err).WithField("path", r.URL.Path).Warn("Хранилище недоступно")
	case http.StatusInternalServerError:
		body = ErrorBody{Error: "internal error"}
		log.WithError(err).WithField("path", r.URL.Path).Error("Ошибка обработки запроса")
	}
	WriteJSON(w, status, body)
}

// StatusFor — HTTP-статус для ошибки сервиса.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidCategory),
		errors.Is(err, common.ErrInvalidKind),
		errors.Is(err, common.ErrEmptyComment),
		errors.Is(err, common.ErrCommentTooLong),
		errors.Is(err, common.ErrInvalidIdea),
		errors.Is(err, common.ErrInvalidIdentity),
		errors.Is(err, common.ErrInvalidStatus),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, common.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrAdminDisabled),
		errors.Is(err, common.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, common.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Ошибки транспортного уровня
var (
	// ErrBadRequest — тело запроса не разобрано
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthenticated — нет заголовка с адресом кошелька
	ErrUnauthenticated = errors.New("wallet address required")
)

// DecodeJSON читает тело запроса в v. Неизвестные поля запрещены.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
