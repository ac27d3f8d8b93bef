package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в UserService
	ErrUserNotFound = errors.New("userservice client: user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrCircuitOpen возвращается, пока circuit breaker не пропускает запросы
	ErrCircuitOpen = errors.New("userservice client: circuit breaker open")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что UserService недоступен и проверка учетной записи пропущена
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
