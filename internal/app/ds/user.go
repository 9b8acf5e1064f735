package ds

// Таблица пользователей. Роль хранится как int (см. internal/app/role),
// DealerID заполняется только у сотрудников дилера.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Login    string `gorm:"type:varchar(50);unique;not null"`
	Password string `gorm:"type:varchar(255);not null"`
	FullName string `gorm:"type:varchar(100)"`
	Phone    string `gorm:"type:varchar(20)"`
	Role     int    `gorm:"type:int;default:0;not null"` // 0 client, 1 manager, 2 dealer_admin, 3 super_admin
	DealerID *uint  `gorm:"default:null;index"`

	Dealer *Dealer `gorm:"foreignKey:DealerID"`
}
