// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса. Тексты на английском:
// их видит фронтенд.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отдавать фронтенду понятные ответы.
package common

import "errors"

// Ошибки экономики (sprouts, списания, история)
var (
	// ErrInvalidAmount — событие с нулевой суммой или с неверным знаком для категории
	ErrInvalidAmount = errors.New("invalid point amount")
	// ErrInvalidCategory — неизвестная категория события
	ErrInvalidCategory = errors.New("unknown point category")
	// ErrInvalidSchedule — таблица стоимости пустая, не положительная или растёт
	ErrInvalidSchedule = errors.New("invalid cost schedule")
	// ErrInvalidTiers — таблица уровней без нулевого порога или с неупорядоченными порогами
	ErrInvalidTiers = errors.New("invalid reputation tiers")
)

// Ошибки хранилища
var (
	// ErrStoreUnavailable — хранилище не ответило (сеть, таймаут). Можно повторить,
	// состояние не изменилось.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound — запись не найдена
	ErrNotFound = errors.New("not found")
	// ErrInconsistentDebit — действие выполнено, а списание не записалось.
	// Повторять нельзя: это выдаст действие второй раз.
	ErrInconsistentDebit = errors.New("action committed without its debit")
)

// Ошибки реакций, комментариев и идей
var (
	// ErrInvalidKind — неизвестный тип реакции
	ErrInvalidKind = errors.New("unknown care kind")
	// ErrEmptyComment — пустой комментарий
	ErrEmptyComment = errors.New("comment is empty")
	// ErrCommentTooLong — комментарий длиннее лимита
	ErrCommentTooLong = errors.New("comment is too long")
	// ErrInvalidIdea — у идеи нет заголовка или статус неизвестен
	ErrInvalidIdea = errors.New("invalid idea")
	// ErrNotAuthor — менять идею может только её автор
	ErrNotAuthor = errors.New("only the author can change this idea")
	// ErrInvalidStatus — неизвестное состояние заявки строителя
	ErrInvalidStatus = errors.New("unknown request status")
	// ErrInvalidIdentity — пустой или битый адрес кошелька
	ErrInvalidIdentity = errors.New("invalid wallet address")
)

// Ошибки админки
var (
	// ErrAdminDisabled — ADMIN_PASSWORD_HASH не задан
	ErrAdminDisabled = errors.New("admin is disabled")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("wrong password")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("too many attempts, wait an hour")
	// ErrBadPasswordHash — ADMIN_PASSWORD_HASH не является хешем Argon2id
	ErrBadPasswordHash = errors.New("admin password hash is malformed")
)
