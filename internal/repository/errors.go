package repository

import "errors"

// Ошибки контракта хранилища. Слой сервисов переводит их в свою
// таксономию; всё остальное считается сбоем хранилища и
// пробрасывается как retryable-ошибка.
var (
	// ErrNotFound — запрошенная запись отсутствует
	ErrNotFound = errors.New("record not found")

	// ErrOverlap — интервал пересекается с нефинальной записью или
	// перерывом поставщика; коммит отклонён без частичных изменений
	ErrOverlap = errors.New("interval overlaps existing booking or time off")
)
