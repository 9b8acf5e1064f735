package ds

// Справочник автомобилей - ТОЛЬКО каталожная информация
type Car struct {
	ID        uint    `gorm:"primaryKey"`
	Brand     string  `gorm:"type:varchar(50);not null"`
	Model     string  `gorm:"type:varchar(100);not null"`
	Year      int     `gorm:"type:int;not null"`
	Body      string  `gorm:"type:varchar(50)"` // sedan, suv, crossover...
	Engine    string  `gorm:"type:varchar(100)"`
	IsDeleted bool    `gorm:"type:boolean;default:false;not null"`
	ImageURL  *string `gorm:"type:varchar(255)"` // Nullable, имя объекта в MinIO
}

// Позиция дилера: автомобиль у конкретного дилера со своей ценой.
// Цена позиции - principal для кредитного калькулятора.
type DealerCar struct {
	ID          uint    `gorm:"primaryKey"`
	DealerID    uint    `gorm:"not null;index;uniqueIndex:idx_dealer_car"`
	CarID       uint    `gorm:"not null;index;uniqueIndex:idx_dealer_car"`
	Price       float64 `gorm:"type:decimal(12,2);not null"`
	IsAvailable bool    `gorm:"type:boolean;default:true;not null"`

	Dealer Dealer `gorm:"foreignKey:DealerID"`
	Car    Car    `gorm:"foreignKey:CarID"`
}
