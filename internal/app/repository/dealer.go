package repository

import "automarket/internal/app/ds"

// Методы для работы со справочником дилеров

func (r *Repository) GetAllDealers() ([]ds.Dealer, error) {
	var dealers []ds.Dealer
	err := r.db.Order("name").Find(&dealers).Error
	return dealers, err
}

func (r *Repository) GetDealerByID(id uint) (*ds.Dealer, error) {
	var dealer ds.Dealer
	err := r.db.First(&dealer, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &dealer, nil
}

func (r *Repository) DealerExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Dealer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateDealer(name, city, address, phone string) (*ds.Dealer, error) {
	dealer := ds.Dealer{
		Name:    name,
		City:    city,
		Address: address,
		Phone:   phone,
	}

	err := r.db.Create(&dealer).Error
	if err != nil {
		return nil, err
	}

	return &dealer, nil
}

func (r *Repository) UpdateDealer(id uint, name, city, address, phone *string) error {
	updates := map[string]interface{}{}
	if name != nil {
		updates["name"] = *name
	}
	if city != nil {
		updates["city"] = *city
	}
	if address != nil {
		updates["address"] = *address
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.Dealer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateErr(r.db.First(&ds.Dealer{}, id).Error)
	}
	return nil
}
