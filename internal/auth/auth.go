// Package auth содержит модель доступа бэк-офиса
// Роль сотрудника разворачивается в набор способностей один раз на запрос,
// обработчики проверяют конкретную пару (модуль, действие)
package auth

// Role роль сотрудника салона
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValidRole проверяет, что строка является допустимой ролью
func IsValidRole(s string) bool {
	r := Role(s)
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// Module модуль бэк-офиса
type Module string

const (
	ModuleAppointments Module = "appointments"
	ModulePolicies     Module = "policies"
	ModuleInvoices     Module = "invoices"
)

// Action действие над модулем
type Action string

const (
	ActionRead     Action = "read"
	ActionWrite    Action = "write"
	ActionCheckout Action = "checkout"
)

// capability пара модуль-действие
type capability struct {
	module Module
	action Action
}

// capabilities статическая таблица способностей по ролям
// Менеджер отличается от администратора только на уровне вышестоящих
// сервисов, внутри этого модуля их наборы совпадают. Сотрудник не может
// менять политики бронирования
var capabilities = map[Role]map[capability]bool{
	RoleAdmin: {
		{ModuleAppointments, ActionRead}:     true,
		{ModuleAppointments, ActionWrite}:    true,
		{ModuleAppointments, ActionCheckout}: true,
		{ModulePolicies, ActionRead}:         true,
		{ModulePolicies, ActionWrite}:        true,
		{ModuleInvoices, ActionRead}:         true,
	},
	RoleManager: {
		{ModuleAppointments, ActionRead}:     true,
		{ModuleAppointments, ActionWrite}:    true,
		{ModuleAppointments, ActionCheckout}: true,
		{ModulePolicies, ActionRead}:         true,
		{ModulePolicies, ActionWrite}:        true,
		{ModuleInvoices, ActionRead}:         true,
	},
	RoleStaff: {
		{ModuleAppointments, ActionRead}:     true,
		{ModuleAppointments, ActionWrite}:    true,
		{ModuleAppointments, ActionCheckout}: true,
		{ModulePolicies, ActionRead}:         true,
		{ModuleInvoices, ActionRead}:         true,
	},
}

// Principal аутентифицированный сотрудник салона
type Principal struct {
	TenantID int64
	UserID   int64
	Role     Role
}

// Can проверяет, разрешено ли сотруднику действие над модулем
func (p Principal) Can(module Module, action Action) bool {
	caps, ok := capabilities[p.Role]
	if !ok {
		return false
	}
	return caps[capability{module, action}]
}
