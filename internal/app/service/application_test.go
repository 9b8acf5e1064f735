package service

import (
	"sort"
	"sync"
	"testing"
	"time"

	"automarket/internal/app/apperr"
	"automarket/internal/app/ds"
	"automarket/internal/app/policy"
	"automarket/internal/app/role"
	"automarket/internal/app/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore - in-memory реализация ApplicationStore с теми же
// атомарными гарантиями, что и условные UPDATE репозитория.
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	apps     map[uint]*ds.Application
	listings map[[2]uint]*ds.DealerCar
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		apps:     make(map[uint]*ds.Application),
		listings: make(map[[2]uint]*ds.DealerCar),
	}
}

func (f *fakeStore) addListing(dealerID, carID uint, price float64, available bool) {
	f.listings[[2]uint{dealerID, carID}] = &ds.DealerCar{
		DealerID:    dealerID,
		CarID:       carID,
		Price:       price,
		IsAvailable: available,
	}
}

func (f *fakeStore) GetListing(dealerID, carID uint) (*ds.DealerCar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[[2]uint{dealerID, carID}]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *listing
	return &cp, nil
}

func (f *fakeStore) CreateApplication(app *ds.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	app.ID = f.nextID
	f.nextID++
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now()
	}
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeStore) GetApplicationByID(id uint) (*ds.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeStore) ListApplications(scope policy.ListScope, status string, dateFrom, dateTo *time.Time) ([]ds.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []ds.Application
	for _, app := range f.apps {
		if scope.UserID != nil && app.UserID != *scope.UserID {
			continue
		}
		if scope.DealerID != nil && app.DealerID != *scope.DealerID {
			continue
		}
		if scope.ManagerID != nil && app.ManagerID != nil && *app.ManagerID != *scope.ManagerID {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		if dateFrom != nil && app.CreatedAt.Before(*dateFrom) {
			continue
		}
		if dateTo != nil && app.CreatedAt.After(*dateTo) {
			continue
		}
		result = append(result, *app)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeStore) ClaimApplication(id, managerID uint) (*ds.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if ds.IsTerminalStatus(app.Status) {
		return nil, apperr.NewValidation("заявка в статусе %s, взятие в работу невозможно", app.Status)
	}
	if app.ManagerID != nil {
		return nil, apperr.ErrConflict
	}
	app.ManagerID = &managerID
	app.Status = ds.StatusInProgress
	cp := *app
	return &cp, nil
}

func (f *fakeStore) UpdateApplicationStatus(id uint, status string) (*ds.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	allowed := false
	for _, src := range ds.TransitionSources(status) {
		if app.Status == src {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.NewValidation("переход из статуса %s в %s невозможен", app.Status, status)
	}
	app.Status = status
	cp := *app
	return &cp, nil
}

// ============ Вспомогательные функции ============

func uintPtr(v uint) *uint { return &v }

func newTestService(store *fakeStore) *ApplicationService {
	return NewApplicationService(store, scoring.NewWithSeed(1))
}

func validInput() SubmitInput {
	return SubmitInput{
		CarID:       1,
		DealerID:    1,
		Name:        "Асылбек Нурланов",
		Phone:       "+77071234567",
		City:        "Алматы",
		IIN:         "990101300123",
		Salary:      500_000,
		DownPayment: 2_000_000,
		LoanTerm:    60,
	}
}

var (
	client      = policy.Actor{ID: 10, Role: role.Client}
	manager     = policy.Actor{ID: 20, Role: role.Manager, DealerID: uintPtr(1)}
	otherMgr    = policy.Actor{ID: 21, Role: role.Manager, DealerID: uintPtr(1)}
	foreignMgr  = policy.Actor{ID: 22, Role: role.Manager, DealerID: uintPtr(2)}
	dealerAdmin = policy.Actor{ID: 30, Role: role.DealerAdmin, DealerID: uintPtr(1)}
	superAdmin  = policy.Actor{ID: 1, Role: role.SuperAdmin}
)

// ============ Подача заявки ============

func TestSubmit_Success(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	app, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	assert.Equal(t, ds.StatusNew, app.Status)
	assert.Equal(t, client.ID, app.UserID)
	assert.Nil(t, app.ManagerID)

	// финансовый снимок: цена из позиции дилера, платёж посчитан сервером
	assert.Equal(t, 10_000_000.0, app.CarPrice)
	assert.Equal(t, 203_147.0, app.MonthlyPayment)

	// балл присвоен до сохранения
	assert.GreaterOrEqual(t, app.CreditScore, scoring.MinScore)
	assert.LessOrEqual(t, app.CreditScore, scoring.MaxScore)
}

func TestSubmit_Validation(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	tests := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"пустое имя", func(in *SubmitInput) { in.Name = "" }},
		{"пустой телефон", func(in *SubmitInput) { in.Phone = "" }},
		{"пустой город", func(in *SubmitInput) { in.City = "" }},
		{"короткий ИИН", func(in *SubmitInput) { in.IIN = "12345" }},
		{"длинный ИИН", func(in *SubmitInput) { in.IIN = "1234567890123" }},
		{"ИИН с буквами", func(in *SubmitInput) { in.IIN = "99010130012X" }},
		{"телефон без кода страны", func(in *SubmitInput) { in.Phone = "87071234567" }},
		{"телефон с буквами", func(in *SubmitInput) { in.Phone = "+77071234abc" }},
		{"короткий телефон", func(in *SubmitInput) { in.Phone = "+7707123456" }},
		{"нулевой доход", func(in *SubmitInput) { in.Salary = 0 }},
		{"отрицательный доход", func(in *SubmitInput) { in.Salary = -1 }},
		{"нулевой срок", func(in *SubmitInput) { in.LoanTerm = 0 }},
		{"взнос больше цены", func(in *SubmitInput) { in.DownPayment = 11_000_000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			app, err := svc.Submit(client, in)
			assert.Nil(t, app)
			assert.True(t, apperr.IsValidation(err), "ожидалась ошибка валидации, получено: %v", err)
		})
	}
}

func TestSubmit_UnknownListing(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	app, err := svc.Submit(client, validInput())
	assert.Nil(t, app)
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmit_UnavailableListing(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, false)
	svc := newTestService(store)

	app, err := svc.Submit(client, validInput())
	assert.Nil(t, app)
	assert.True(t, apperr.IsValidation(err))
}

func TestSubmit_OptionalFields(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	in := validInput()
	in.ManagerCode = "MGR-042"
	in.Message = "Перезвоните после 18:00"

	app, err := svc.Submit(client, in)
	require.NoError(t, err)
	require.NotNil(t, app.ManagerCode)
	assert.Equal(t, "MGR-042", *app.ManagerCode)
	require.NotNil(t, app.Message)
	assert.Equal(t, "Перезвоните после 18:00", *app.Message)
}

// ============ Видимость ============

func TestGet_Visibility(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	created, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	t.Run("клиент видит свою", func(t *testing.T) {
		app, err := svc.Get(client, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, app.ID)
	})

	t.Run("чужой клиент получает отказ", func(t *testing.T) {
		stranger := policy.Actor{ID: 99, Role: role.Client}
		_, err := svc.Get(stranger, created.ID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("менеджер чужого дилера получает отказ", func(t *testing.T) {
		_, err := svc.Get(foreignMgr, created.ID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("сотрудники дилера и суперадмин видят", func(t *testing.T) {
		for _, actor := range []policy.Actor{manager, dealerAdmin, superAdmin} {
			_, err := svc.Get(actor, created.ID)
			assert.NoError(t, err)
		}
	})

	t.Run("несуществующая заявка", func(t *testing.T) {
		_, err := svc.Get(superAdmin, 9999)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestList_Scope(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	store.addListing(2, 1, 9_500_000, true)
	svc := newTestService(store)

	// две заявки клиента у дилера 1, одна чужая у дилера 2
	_, err := svc.Submit(client, validInput())
	require.NoError(t, err)
	_, err = svc.Submit(client, validInput())
	require.NoError(t, err)

	other := policy.Actor{ID: 11, Role: role.Client}
	in := validInput()
	in.DealerID = 2
	_, err = svc.Submit(other, in)
	require.NoError(t, err)

	t.Run("клиент видит только свои", func(t *testing.T) {
		apps, err := svc.List(client, "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	})

	t.Run("админ дилера видит весь дилер", func(t *testing.T) {
		apps, err := svc.List(dealerAdmin, "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	})

	t.Run("суперадмин видит всё", func(t *testing.T) {
		apps, err := svc.List(superAdmin, "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, apps, 3)
	})

	t.Run("недопустимый статус отклоняется", func(t *testing.T) {
		_, err := svc.List(superAdmin, "APPROVED", nil, nil)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestList_ManagerSeesUnclaimedAndOwn(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	first, err := svc.Submit(client, validInput())
	require.NoError(t, err)
	second, err := svc.Submit(client, validInput())
	require.NoError(t, err)
	third, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	// первую берет сам менеджер, вторую - его коллега
	_, err = svc.Claim(manager, first.ID)
	require.NoError(t, err)
	_, err = svc.Claim(otherMgr, second.ID)
	require.NoError(t, err)

	apps, err := svc.List(manager, "", nil, nil)
	require.NoError(t, err)

	ids := make(map[uint]bool)
	for _, a := range apps {
		ids[a.ID] = true
	}
	assert.True(t, ids[first.ID], "менеджер должен видеть свою назначенную заявку")
	assert.True(t, ids[third.ID], "менеджер должен видеть незанятую заявку")
	assert.False(t, ids[second.ID], "заявка коллеги не должна быть видна")
}

// ============ Жизненный цикл ============

func TestChangeStatus_HappyPath(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	created, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	app, err := svc.ChangeStatus(manager, created.ID, ds.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, ds.StatusInProgress, app.Status)

	app, err = svc.ChangeStatus(manager, created.ID, ds.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, ds.StatusCompleted, app.Status)
}

func TestChangeStatus_Guards(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	created, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	t.Run("клиент не меняет статус", func(t *testing.T) {
		_, err := svc.ChangeStatus(client, created.ID, ds.StatusCancelled)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("персонал чужого дилера не меняет статус", func(t *testing.T) {
		_, err := svc.ChangeStatus(foreignMgr, created.ID, ds.StatusCancelled)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("недопустимое значение статуса", func(t *testing.T) {
		_, err := svc.ChangeStatus(manager, created.ID, "APPROVED")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("завершение без взятия в работу запрещено", func(t *testing.T) {
		_, err := svc.ChangeStatus(manager, created.ID, ds.StatusCompleted)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("выход из терминального статуса запрещён", func(t *testing.T) {
		_, err := svc.ChangeStatus(manager, created.ID, ds.StatusCancelled)
		require.NoError(t, err)

		_, err = svc.ChangeStatus(manager, created.ID, ds.StatusInProgress)
		assert.True(t, apperr.IsValidation(err))
		_, err = svc.ChangeStatus(superAdmin, created.ID, ds.StatusCompleted)
		assert.True(t, apperr.IsValidation(err))
	})
}

// ============ Взятие в работу ============

func TestClaim_Success(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	created, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	app, err := svc.Claim(manager, created.ID)
	require.NoError(t, err)
	require.NotNil(t, app.ManagerID)
	assert.Equal(t, manager.ID, *app.ManagerID)
	assert.Equal(t, ds.StatusInProgress, app.Status)
}

func TestClaim_Guards(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	created, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	t.Run("клиент не берет в работу", func(t *testing.T) {
		_, err := svc.Claim(client, created.ID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("персонал чужого дилера не берет в работу", func(t *testing.T) {
		_, err := svc.Claim(foreignMgr, created.ID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("несуществующая заявка", func(t *testing.T) {
		_, err := svc.Claim(superAdmin, 9999)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("повторное взятие - конфликт", func(t *testing.T) {
		_, err := svc.Claim(manager, created.ID)
		require.NoError(t, err)

		_, err = svc.Claim(otherMgr, created.ID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		// даже сам назначенный менеджер не берет повторно
		_, err = svc.Claim(manager, created.ID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestClaim_TerminalStatusStaysTerminal(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	t.Run("отменённая незанятая заявка не берётся в работу", func(t *testing.T) {
		created, err := svc.Submit(client, validInput())
		require.NoError(t, err)

		// отмена из NEW оставляет manager_id пустым
		_, err = svc.ChangeStatus(manager, created.ID, ds.StatusCancelled)
		require.NoError(t, err)

		_, err = svc.Claim(manager, created.ID)
		assert.True(t, apperr.IsValidation(err), "ожидалась ошибка валидации, получено: %v", err)

		// статус и менеджер не изменились
		app, err := svc.Get(superAdmin, created.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.StatusCancelled, app.Status)
		assert.Nil(t, app.ManagerID)
	})

	t.Run("завершённая незанятая заявка не берётся в работу", func(t *testing.T) {
		created, err := svc.Submit(client, validInput())
		require.NoError(t, err)

		// в COMPLETED через смену статусов, без взятия в работу
		_, err = svc.ChangeStatus(manager, created.ID, ds.StatusInProgress)
		require.NoError(t, err)
		_, err = svc.ChangeStatus(manager, created.ID, ds.StatusCompleted)
		require.NoError(t, err)

		_, err = svc.Claim(manager, created.ID)
		assert.True(t, apperr.IsValidation(err), "ожидалась ошибка валидации, получено: %v", err)

		app, err := svc.Get(superAdmin, created.ID)
		require.NoError(t, err)
		assert.Equal(t, ds.StatusCompleted, app.Status)
		assert.Nil(t, app.ManagerID)
	})
}

func TestClaim_ConcurrentExactlyOneWinner(t *testing.T) {
	store := newFakeStore()
	store.addListing(1, 1, 10_000_000, true)
	svc := newTestService(store)

	created, err := svc.Submit(client, validInput())
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(managerID uint) {
			defer wg.Done()
			actor := policy.Actor{ID: managerID, Role: role.Manager, DealerID: uintPtr(1)}
			_, err := svc.Claim(actor, created.ID)
			results <- err
		}(uint(100 + i))
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case err == apperr.ErrConflict:
			conflicts++
		default:
			t.Fatalf("неожиданная ошибка: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "победить должен ровно один менеджер")
	assert.Equal(t, workers-1, conflicts)

	app, err := svc.Get(superAdmin, created.ID)
	require.NoError(t, err)
	require.NotNil(t, app.ManagerID)
	assert.Equal(t, ds.StatusInProgress, app.Status)
}
