package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
	"github.com/iho/cashledger/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)
	cache := mocks.NewMockCache(ctrl)

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	accountRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ usecase.Transaction, a *domain.Account) error {
			if a.ID != "a1" || a.CreatedAt != 42 || a.Balance != 0 {
				t.Errorf("unexpected account: %+v", a)
			}
			return nil
		})
	entryRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	idGen.EXPECT().Generate().Return("evt-1")
	outboxRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)
	cache.EXPECT().Delete(gomock.Any(), "accounts:ids").Return(nil)

	uc := usecase.NewAccountUseCase(txManager, accountRepo, entryRepo, outboxRepo, nil, idGen, nil).
		WithAccountListCache(cache, time.Minute)

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Timestamp: 42, AccountID: "a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.ID != "a1" {
		t.Fatalf("expected a1, got %s", account.ID)
	}
}

func TestAccountUseCase_CreateAccountDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	accountRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(domain.ErrAccountAlreadyExists)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewAccountUseCase(txManager, accountRepo, mocks.NewMockEntryRepository(ctrl), nil, nil, nil, nil).
		WithAccountListCache(cache, time.Minute)

	_, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{AccountID: "a1"})
	if !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected ErrAccountAlreadyExists, got %v", err)
	}
}

func TestAccountUseCase_ListAccountIDsCache(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accountRepo := mocks.NewMockAccountRepository(ctrl)
		cache := mocks.NewMockCache(ctrl)

		raw, _ := json.Marshal([]string{"a1", "a2"})
		cache.EXPECT().Get(gomock.Any(), "accounts:ids").Return(raw, nil)

		uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil, nil, nil, nil).WithAccountListCache(cache, time.Minute)
		ids, err := uc.ListAccountIDs(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ids) != 2 || ids[0] != "a1" {
			t.Fatalf("unexpected ids: %v", ids)
		}
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accountRepo := mocks.NewMockAccountRepository(ctrl)
		cache := mocks.NewMockCache(ctrl)

		cache.EXPECT().Get(gomock.Any(), "accounts:ids").Return(nil, usecase.ErrCacheMiss)
		accountRepo.EXPECT().ListIDs(gomock.Any()).Return([]string{"a1"}, nil)
		cache.EXPECT().Set(gomock.Any(), "accounts:ids", []byte(`["a1"]`), time.Minute).Return(nil)

		uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil, nil, nil, nil).WithAccountListCache(cache, time.Minute)
		ids, err := uc.ListAccountIDs(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ids) != 1 {
			t.Fatalf("unexpected ids: %v", ids)
		}
	})

	t.Run("cache failure falls back to repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		accountRepo := mocks.NewMockAccountRepository(ctrl)
		cache := mocks.NewMockCache(ctrl)

		cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
		accountRepo.EXPECT().ListIDs(gomock.Any()).Return(nil, nil)
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil, nil, nil, nil).WithAccountListCache(cache, time.Minute)
		ids, err := uc.ListAccountIDs(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids == nil || len(ids) != 0 {
			t.Fatalf("expected empty non-nil list, got %v", ids)
		}
	})
}

func TestAccountUseCase_GetBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := mocks.NewMockAccountRepository(ctrl)
	accountRepo.EXPECT().GetByID(gomock.Any(), "a1").Return(&domain.Account{ID: "a1", Balance: 402}, nil)
	accountRepo.EXPECT().GetByID(gomock.Any(), "a2").Return(nil, domain.ErrAccountNotFound)

	uc := usecase.NewAccountUseCase(nil, accountRepo, nil, nil, nil, nil, nil)

	balance, err := uc.GetBalance(context.Background(), "a1")
	if err != nil || balance != 402 {
		t.Fatalf("expected 402, got %d err=%v", balance, err)
	}

	if _, err := uc.GetBalance(context.Background(), "a2"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
