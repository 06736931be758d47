package service

import "errors"

// Таксономия ошибок движка. Транспортный слой отображает их в коды
// ответов; всё, что не попадает в таксономию, считается сбоем
// хранилища и отдаётся наверх как retryable-ошибка.
var (
	// ErrInvalidArgument — некорректный или противоречивый вход;
	// автоматически не повторяется
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrProviderNotFound — неизвестный поставщик
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAppointmentNotFound — неизвестная запись
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrRuleNotFound — неизвестное правило доступности
	ErrRuleNotFound = errors.New("availability rule not found")

	// ErrUserNotFound — неизвестный пользователь
	ErrUserNotFound = errors.New("user not found")

	// ErrSlotContention — слот занят между предложением и подтверждением;
	// не сбой системы, вызывающий может запросить свежий список слотов
	ErrSlotContention = errors.New("slot was claimed by a concurrent booking")
)
