package domain

type OrderStatusType string

const (
	OrderStatusCreated OrderStatusType = "CREATED"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole возвращает роль по строковому значению. Для неизвестных значений ok == false.
func ParseRole(value string) (role Role, ok bool) {
	switch Role(value) {
	case RoleUser, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}
