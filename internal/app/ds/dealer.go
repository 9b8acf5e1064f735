package ds

// Таблица дилерских центров
type Dealer struct {
	ID      uint    `gorm:"primaryKey"`
	Name    string  `gorm:"type:varchar(100);not null"`
	City    string  `gorm:"type:varchar(100)"`
	Address string  `gorm:"type:varchar(255)"`
	Phone   string  `gorm:"type:varchar(20)"`
	LogoURL *string `gorm:"type:varchar(255)"` // Nullable, имя объекта в MinIO
}
