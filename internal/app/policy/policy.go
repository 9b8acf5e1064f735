package policy

import (
	"automarket/internal/app/ds"
	"automarket/internal/app/role"
)

// Actor - явный контекст действующего пользователя. Передаётся во все
// операции ядра вместо глобальной сессии. DealerID заполнен только
// у сотрудников дилера.
type Actor struct {
	ID       uint
	Role     role.Role
	DealerID *uint
}

// sameDealer - актор привязан к дилеру, владеющему заявкой
func (a Actor) sameDealer(dealerID uint) bool {
	return a.DealerID != nil && *a.DealerID == dealerID
}

// CanSubmit: подать заявку может любой аутентифицированный пользователь,
// заявка всегда атрибутируется ему самому
func CanSubmit(actor Actor) bool {
	return actor.Role.IsValid()
}

// CanViewApplication: клиент-податель, назначенный менеджер,
// любой сотрудник дилера-владельца, суперадмин
func CanViewApplication(actor Actor, app *ds.Application) bool {
	if actor.Role == role.SuperAdmin {
		return true
	}
	if actor.Role == role.Client {
		return app.UserID == actor.ID
	}
	if app.ManagerID != nil && *app.ManagerID == actor.ID {
		return true
	}
	return actor.Role.IsStaff() && actor.sameDealer(app.DealerID)
}

// CanMutateApplication: смена статуса и взятие в работу - только персонал
// дилера-владельца либо суперадмин. Клиенту всегда отказ, персоналу
// чужого дилера всегда отказ.
func CanMutateApplication(actor Actor, app *ds.Application) bool {
	if actor.Role == role.SuperAdmin {
		return true
	}
	return actor.Role.IsStaff() && actor.sameDealer(app.DealerID)
}

// ListScope описывает область видимости заявок для списочных запросов
type ListScope struct {
	// UserID != nil: только заявки этого клиента
	UserID *uint
	// DealerID != nil: только заявки этого дилера
	DealerID *uint
	// ManagerID != nil: незанятые заявки дилера плюс заявки,
	// взятые этим менеджером (видимость роли MANAGER)
	ManagerID *uint
}

// ScopeFor возвращает область видимости списка заявок для актора:
// клиент - только свои, менеджер - незанятые своего дилера плюс свои
// назначенные, админ дилера - весь дилер, суперадмин - всё.
func ScopeFor(actor Actor) ListScope {
	switch actor.Role {
	case role.SuperAdmin:
		return ListScope{}
	case role.DealerAdmin:
		return ListScope{DealerID: actor.DealerID}
	case role.Manager:
		id := actor.ID
		return ListScope{DealerID: actor.DealerID, ManagerID: &id}
	default:
		id := actor.ID
		return ListScope{UserID: &id}
	}
}

// CanManageCars: управление каталогом и позициями дилера - админ дилера
// (своего) и суперадмин. Роль MANAGER намеренно не видит инвентарь.
func CanManageCars(actor Actor, dealerID uint) bool {
	if actor.Role == role.SuperAdmin {
		return true
	}
	return actor.Role == role.DealerAdmin && actor.sameDealer(dealerID)
}

// CanManageDealers: справочник дилеров ведёт только суперадмин
func CanManageDealers(actor Actor) bool {
	return actor.Role == role.SuperAdmin
}
