package role

// Роли пользователей системы. Хранятся в БД и в JWT как int.
type Role int

const (
	Client Role = iota // покупатель
	Manager
	DealerAdmin
	SuperAdmin
)

// IsStaff - любая роль кроме покупателя (менеджер, админ дилера, суперадмин)
func (r Role) IsStaff() bool {
	return r == Manager || r == DealerAdmin || r == SuperAdmin
}

// IsValid проверяет что значение входит в закрытый перечень ролей
func (r Role) IsValid() bool {
	return r >= Client && r <= SuperAdmin
}

// Parse возвращает роль по её строковому имени
func Parse(s string) (Role, bool) {
	switch s {
	case "CLIENT":
		return Client, true
	case "MANAGER":
		return Manager, true
	case "DEALER_ADMIN":
		return DealerAdmin, true
	case "SUPER_ADMIN":
		return SuperAdmin, true
	}
	return 0, false
}

func (r Role) String() string {
	switch r {
	case Client:
		return "CLIENT"
	case Manager:
		return "MANAGER"
	case DealerAdmin:
		return "DEALER_ADMIN"
	case SuperAdmin:
		return "SUPER_ADMIN"
	default:
		return "UNKNOWN"
	}
}
