package repository

import "automarket/internal/app/ds"

// Методы для работы с каталогом автомобилей и позициями дилеров

// Получить все автомобили каталога (с поиском по марке/модели)
func (r *Repository) GetAllCars(search string) ([]ds.Car, error) {
	var cars []ds.Car
	q := r.db.Where("is_deleted = ?", false)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("brand ILIKE ? OR model ILIKE ?", pattern, pattern)
	}
	err := q.Find(&cars).Error
	return cars, err
}

func (r *Repository) GetCarByID(id uint) (*ds.Car, error) {
	var car ds.Car
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&car).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &car, nil
}

func (r *Repository) CarExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Car{}).Where("id = ? AND is_deleted = ?", id, false).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateCar(brand, model string, year int, body, engine string) (*ds.Car, error) {
	car := ds.Car{
		Brand:  brand,
		Model:  model,
		Year:   year,
		Body:   body,
		Engine: engine,
	}

	err := r.db.Create(&car).Error
	if err != nil {
		return nil, err
	}

	return &car, nil
}

func (r *Repository) UpdateCar(id uint, brand, model, body, engine *string, year *int) error {
	updates := map[string]interface{}{}
	if brand != nil {
		updates["brand"] = *brand
	}
	if model != nil {
		updates["model"] = *model
	}
	if body != nil {
		updates["body"] = *body
	}
	if engine != nil {
		updates["engine"] = *engine
	}
	if year != nil {
		updates["year"] = *year
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.Car{}).Where("id = ? AND is_deleted = ?", id, false).Updates(updates).Error
}

// Логическое удаление автомобиля из каталога
func (r *Repository) DeleteCar(id uint) error {
	return r.db.Model(&ds.Car{}).Where("id = ?", id).Update("is_deleted", true).Error
}

func (r *Repository) UpdateCarImage(id uint, imageURL string) error {
	return r.db.Model(&ds.Car{}).Where("id = ?", id).Update("image_url", imageURL).Error
}

func (r *Repository) DeleteCarImage(id uint) error {
	return r.db.Model(&ds.Car{}).Where("id = ?", id).Update("image_url", nil).Error
}

// ============ Позиции дилеров ============

// Получить доступные позиции дилера (для витрины)
func (r *Repository) GetDealerListings(dealerID uint) ([]ds.DealerCar, error) {
	var listings []ds.DealerCar
	err := r.db.Preload("Car").Preload("Dealer").
		Where("dealer_id = ? AND is_available = ?", dealerID, true).
		Find(&listings).Error
	return listings, err
}

// Получить позицию дилера для пары дилер-автомобиль.
// Цена позиции используется калькулятором как principal.
func (r *Repository) GetListing(dealerID, carID uint) (*ds.DealerCar, error) {
	var listing ds.DealerCar
	err := r.db.Where("dealer_id = ? AND car_id = ?", dealerID, carID).First(&listing).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &listing, nil
}

func (r *Repository) CreateListing(dealerID, carID uint, price float64) (*ds.DealerCar, error) {
	listing := ds.DealerCar{
		DealerID:    dealerID,
		CarID:       carID,
		Price:       price,
		IsAvailable: true,
	}

	err := r.db.Create(&listing).Error
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

func (r *Repository) UpdateListing(dealerID, carID uint, price *float64, isAvailable *bool) error {
	updates := map[string]interface{}{}
	if price != nil {
		updates["price"] = *price
	}
	if isAvailable != nil {
		updates["is_available"] = *isAvailable
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.DealerCar{}).
		Where("dealer_id = ? AND car_id = ?", dealerID, carID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateErr(r.db.Where("dealer_id = ? AND car_id = ?", dealerID, carID).First(&ds.DealerCar{}).Error)
	}
	return nil
}
