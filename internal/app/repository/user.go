package repository

import "automarket/internal/app/ds"

// Методы для работы с пользователями

func (r *Repository) CreateUser(login, hashedPassword, fullName, phone string, userRole int, dealerID *uint) (*ds.User, error) {
	user := ds.User{
		Login:    login,
		Password: hashedPassword,
		FullName: fullName,
		Phone:    phone,
		Role:     userRole,
		DealerID: dealerID,
	}

	err := r.db.Create(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *Repository) GetAllUsers() ([]ds.User, error) {
	var users []ds.User
	err := r.db.Preload("Dealer").Order("id").Find(&users).Error
	return users, err
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) UpdateUser(id uint, fullName, phone, password *string) error {
	updates := map[string]interface{}{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if phone != nil {
		updates["phone"] = *phone
	}
	if password != nil {
		updates["password"] = *password
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates).Error
}
