package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"centavo/internal/domain/access"
)

// MockRepo implements Repository for testing. Its Level func doubles as
// the account level store for the access evaluator.
type MockRepo struct {
	CreateFunc          func(ctx context.Context, params CreateParams, ownerID int64) (*Account, error)
	GetByIDFunc         func(ctx context.Context, id int64) (*Account, error)
	ListByUserIDFunc    func(ctx context.Context, userID int64) ([]*Account, error)
	NameTakenByUserFunc func(ctx context.Context, userID int64, name string) (bool, error)
	UpdateFunc          func(ctx context.Context, id int64, params UpdateParams) (*Account, error)
	DeleteFunc          func(ctx context.Context, id int64) error
	AddMemberFunc       func(ctx context.Context, accountID, userID int64, role string) (*Membership, error)
	RemoveMemberFunc    func(ctx context.Context, accountID, userID int64) (bool, error)
	ListMembersFunc     func(ctx context.Context, accountID int64) ([]*Member, error)
	LevelFunc           func(ctx context.Context, userID, accountID int64) (access.Level, error)
}

func (m *MockRepo) Create(ctx context.Context, params CreateParams, ownerID int64) (*Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params, ownerID)
	}
	return nil, nil
}

func (m *MockRepo) GetByID(ctx context.Context, id int64) (*Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrAccountNotFound
}

func (m *MockRepo) ListByUserID(ctx context.Context, userID int64) ([]*Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepo) NameTakenByUser(ctx context.Context, userID int64, name string) (bool, error) {
	if m.NameTakenByUserFunc != nil {
		return m.NameTakenByUserFunc(ctx, userID, name)
	}
	return false, nil
}

func (m *MockRepo) Update(ctx context.Context, id int64, params UpdateParams) (*Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, ErrAccountNotFound
}

func (m *MockRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepo) AddMember(ctx context.Context, accountID, userID int64, role string) (*Membership, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, accountID, userID, role)
	}
	return nil, nil
}

func (m *MockRepo) RemoveMember(ctx context.Context, accountID, userID int64) (bool, error) {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, accountID, userID)
	}
	return false, nil
}

func (m *MockRepo) ListMembers(ctx context.Context, accountID int64) ([]*Member, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockRepo) Level(ctx context.Context, userID, accountID int64) (access.Level, error) {
	if m.LevelFunc != nil {
		return m.LevelFunc(ctx, userID, accountID)
	}
	return access.LevelNone, nil
}

type noBudgets struct{}

func (noBudgets) Level(ctx context.Context, userID, resourceID int64) (access.Level, error) {
	return access.LevelNone, nil
}

// levelsByUser wires a fixed user -> level map into the evaluator.
func levelsByUser(levels map[int64]access.Level) func(ctx context.Context, userID, accountID int64) (access.Level, error) {
	return func(ctx context.Context, userID, accountID int64) (access.Level, error) {
		return levels[userID], nil
	}
}

func newTestService(repo *MockRepo) *Service {
	return NewService(repo, access.NewEvaluator(repo, noBudgets{}))
}

const (
	ownerID    = int64(1)
	memberID   = int64(2)
	strangerID = int64(3)
)

func sharedLevels() map[int64]access.Level {
	return map[int64]access.Level{
		ownerID:  access.LevelOwner,
		memberID: access.LevelRead,
	}
}

func TestCreateAccount(t *testing.T) {
	repo := &MockRepo{
		CreateFunc: func(ctx context.Context, params CreateParams, callerID int64) (*Account, error) {
			return &Account{ID: 10, Name: params.Name, CurrencyCode: params.CurrencyCode, CreatedAt: time.Now()}, nil
		},
	}
	svc := newTestService(repo)

	acc, err := svc.CreateAccount(context.Background(), ownerID, CreateParams{Name: "Household", CurrencyCode: "BRL"})
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}
	if acc.ID != 10 || acc.Name != "Household" {
		t.Errorf("CreateAccount() = %+v, want ID 10 and name Household", acc)
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	svc := newTestService(&MockRepo{})

	tests := []struct {
		name   string
		params CreateParams
	}{
		{"missing name", CreateParams{CurrencyCode: "USD"}},
		{"missing currency", CreateParams{Name: "Household"}},
		{"bogus currency", CreateParams{Name: "Household", CurrencyCode: "XYZ"}},
		{"lowercase currency", CreateParams{Name: "Household", CurrencyCode: "usd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateAccount(context.Background(), ownerID, tt.params); err == nil {
				t.Error("CreateAccount() expected validation error, got nil")
			}
		})
	}
}

func TestCreateAccount_DuplicateName(t *testing.T) {
	repo := &MockRepo{
		NameTakenByUserFunc: func(ctx context.Context, userID int64, name string) (bool, error) {
			return true, nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.CreateAccount(context.Background(), ownerID, CreateParams{Name: "Household", CurrencyCode: "USD"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("CreateAccount() error = %v, want ErrDuplicateName", err)
	}
}

func TestGetAccount_ReadAccess(t *testing.T) {
	repo := &MockRepo{
		LevelFunc: levelsByUser(sharedLevels()),
		GetByIDFunc: func(ctx context.Context, id int64) (*Account, error) {
			return &Account{ID: id, Name: "Household"}, nil
		},
	}
	svc := newTestService(repo)

	for _, userID := range []int64{ownerID, memberID} {
		if _, err := svc.GetAccount(context.Background(), userID, 10); err != nil {
			t.Errorf("GetAccount() for user %d failed: %v", userID, err)
		}
	}

	if _, err := svc.GetAccount(context.Background(), strangerID, 10); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetAccount() for stranger error = %v, want ErrForbidden", err)
	}
}

func TestUpdateAccount_OwnerOnly(t *testing.T) {
	repo := &MockRepo{
		LevelFunc: levelsByUser(sharedLevels()),
		UpdateFunc: func(ctx context.Context, id int64, params UpdateParams) (*Account, error) {
			return &Account{ID: id, Name: *params.Name}, nil
		},
	}
	svc := newTestService(repo)
	name := "Renamed"

	if _, err := svc.UpdateAccount(context.Background(), ownerID, 10, UpdateParams{Name: &name}); err != nil {
		t.Fatalf("UpdateAccount() as owner failed: %v", err)
	}

	// Membership grants visibility only, never mutation
	if _, err := svc.UpdateAccount(context.Background(), memberID, 10, UpdateParams{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateAccount() as member error = %v, want ErrForbidden", err)
	}
	if _, err := svc.UpdateAccount(context.Background(), strangerID, 10, UpdateParams{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateAccount() as stranger error = %v, want ErrForbidden", err)
	}
}

func TestDeleteAccount_OwnerOnly(t *testing.T) {
	deleted := false
	repo := &MockRepo{
		LevelFunc: levelsByUser(sharedLevels()),
		DeleteFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.DeleteAccount(context.Background(), memberID, 10); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteAccount() as member error = %v, want ErrForbidden", err)
	}
	if deleted {
		t.Fatal("DeleteAccount() reached repository despite forbidden caller")
	}

	if err := svc.DeleteAccount(context.Background(), ownerID, 10); err != nil {
		t.Fatalf("DeleteAccount() as owner failed: %v", err)
	}
	if !deleted {
		t.Error("DeleteAccount() as owner never reached repository")
	}
}

func TestAddMember_OwnerOnly(t *testing.T) {
	repo := &MockRepo{
		LevelFunc: levelsByUser(sharedLevels()),
		AddMemberFunc: func(ctx context.Context, accountID, userID int64, role string) (*Membership, error) {
			return &Membership{AccountID: accountID, UserID: userID, Role: role}, nil
		},
	}
	svc := newTestService(repo)

	m, err := svc.AddMember(context.Background(), ownerID, 10, strangerID)
	if err != nil {
		t.Fatalf("AddMember() as owner failed: %v", err)
	}
	if m.Role != "member" {
		t.Errorf("AddMember() role = %q, want %q", m.Role, "member")
	}

	if _, err := svc.AddMember(context.Background(), memberID, 10, strangerID); !errors.Is(err, ErrForbidden) {
		t.Errorf("AddMember() as member error = %v, want ErrForbidden", err)
	}
}

func TestRemoveMember(t *testing.T) {
	repo := &MockRepo{
		LevelFunc: levelsByUser(sharedLevels()),
		RemoveMemberFunc: func(ctx context.Context, accountID, userID int64) (bool, error) {
			// The owner membership is not removable
			return userID != ownerID, nil
		},
	}
	svc := newTestService(repo)

	removed, err := svc.RemoveMember(context.Background(), ownerID, 10, memberID)
	if err != nil {
		t.Fatalf("RemoveMember() failed: %v", err)
	}
	if !removed {
		t.Error("RemoveMember() = false for plain member, want true")
	}

	removed, err = svc.RemoveMember(context.Background(), ownerID, 10, ownerID)
	if err != nil {
		t.Fatalf("RemoveMember() of owner failed: %v", err)
	}
	if removed {
		t.Error("RemoveMember() = true for owner membership, want false")
	}

	if _, err := svc.RemoveMember(context.Background(), memberID, 10, memberID); !errors.Is(err, ErrForbidden) {
		t.Errorf("RemoveMember() as member error = %v, want ErrForbidden", err)
	}
}

// memoryAccountStore implements Repository in memory with the same
// membership semantics as the database: account creation lands the
// owner membership together with the account row, AddMember is
// idempotent, and the owner membership is never removable.
type memoryAccountStore struct {
	mu          sync.Mutex
	accounts    map[int64]*Account
	memberships []*Membership
	nextID      int64
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{accounts: make(map[int64]*Account)}
}

func (s *memoryAccountStore) Create(ctx context.Context, params CreateParams, ownerID int64) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	acc := &Account{
		ID:           s.nextID,
		Name:         params.Name,
		CurrencyCode: params.CurrencyCode,
		Description:  params.Description,
		CreatedAt:    time.Now(),
	}
	s.accounts[acc.ID] = acc
	s.memberships = append(s.memberships, &Membership{
		AccountID: acc.ID,
		UserID:    ownerID,
		Role:      "owner",
		IsOwner:   true,
		JoinedAt:  acc.CreatedAt,
	})
	return acc, nil
}

func (s *memoryAccountStore) GetByID(ctx context.Context, id int64) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *memoryAccountStore) ListByUserID(ctx context.Context, userID int64) ([]*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Account
	for _, m := range s.memberships {
		if m.UserID == userID {
			cp := *s.accounts[m.AccountID]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memoryAccountStore) NameTakenByUser(ctx context.Context, userID int64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.UserID == userID && m.IsOwner && s.accounts[m.AccountID].Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryAccountStore) Update(ctx context.Context, id int64, params UpdateParams) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if params.Name != nil {
		acc.Name = *params.Name
	}
	if params.Description != nil {
		acc.Description = *params.Description
	}
	cp := *acc
	return &cp, nil
}

func (s *memoryAccountStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	kept := s.memberships[:0]
	for _, m := range s.memberships {
		if m.AccountID != id {
			kept = append(kept, m)
		}
	}
	s.memberships = kept
	return nil
}

func (s *memoryAccountStore) AddMember(ctx context.Context, accountID, userID int64, role string) (*Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	m := &Membership{
		AccountID: accountID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	s.memberships = append(s.memberships, m)
	cp := *m
	return &cp, nil
}

func (s *memoryAccountStore) RemoveMember(ctx context.Context, accountID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			if m.IsOwner {
				return false, nil
			}
			s.memberships = append(s.memberships[:i], s.memberships[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryAccountStore) ListMembers(ctx context.Context, accountID int64) ([]*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Member
	for _, m := range s.memberships {
		if m.AccountID == accountID {
			out = append(out, &Member{
				UserID:   m.UserID,
				Role:     m.Role,
				IsOwner:  m.IsOwner,
				JoinedAt: m.JoinedAt,
			})
		}
	}
	return out, nil
}

func (s *memoryAccountStore) Level(ctx context.Context, userID, accountID int64) (access.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.AccountID == accountID && m.UserID == userID {
			if m.IsOwner {
				return access.LevelOwner, nil
			}
			return access.LevelRead, nil
		}
	}
	return access.LevelNone, nil
}

func TestCreateAccount_SingleOwnerMembership(t *testing.T) {
	store := newMemoryAccountStore()
	svc := NewService(store, access.NewEvaluator(store, noBudgets{}))

	acc, err := svc.CreateAccount(context.Background(), ownerID, CreateParams{Name: "Household", CurrencyCode: "BRL"})
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}

	// The creator is immediately the owner: no window where the account
	// exists without an owner membership
	name := "Renamed"
	if _, err := svc.UpdateAccount(context.Background(), ownerID, acc.ID, UpdateParams{Name: &name}); err != nil {
		t.Errorf("UpdateAccount() right after create failed: %v", err)
	}

	members, err := svc.ListMembers(context.Background(), ownerID, acc.ID)
	if err != nil {
		t.Fatalf("ListMembers() failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("ListMembers() returned %d memberships after create, want exactly 1", len(members))
	}
	if !members[0].IsOwner || members[0].UserID != ownerID {
		t.Errorf("ListMembers()[0] = %+v, want owner membership for user %d", members[0], ownerID)
	}
}

func TestAddMember_Idempotent(t *testing.T) {
	store := newMemoryAccountStore()
	svc := NewService(store, access.NewEvaluator(store, noBudgets{}))

	acc, err := svc.CreateAccount(context.Background(), ownerID, CreateParams{Name: "Household", CurrencyCode: "BRL"})
	if err != nil {
		t.Fatalf("CreateAccount() failed: %v", err)
	}

	first, err := svc.AddMember(context.Background(), ownerID, acc.ID, memberID)
	if err != nil {
		t.Fatalf("AddMember() failed: %v", err)
	}

	second, err := svc.AddMember(context.Background(), ownerID, acc.ID, memberID)
	if err != nil {
		t.Fatalf("AddMember() repeated failed: %v", err)
	}
	if *second != *first {
		t.Errorf("AddMember() repeated = %+v, want the existing record %+v", second, first)
	}

	members, err := svc.ListMembers(context.Background(), ownerID, acc.ID)
	if err != nil {
		t.Fatalf("ListMembers() failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("ListMembers() returned %d memberships after repeated add, want 2", len(members))
	}

	// The added member gained read visibility
	if _, err := svc.GetAccount(context.Background(), memberID, acc.ID); err != nil {
		t.Errorf("GetAccount() as added member failed: %v", err)
	}
}

func TestListMembers_ReadAccess(t *testing.T) {
	repo := &MockRepo{
		LevelFunc: levelsByUser(sharedLevels()),
		ListMembersFunc: func(ctx context.Context, accountID int64) ([]*Member, error) {
			return []*Member{
				{UserID: ownerID, IsOwner: true},
				{UserID: memberID},
			}, nil
		},
	}
	svc := newTestService(repo)

	members, err := svc.ListMembers(context.Background(), memberID, 10)
	if err != nil {
		t.Fatalf("ListMembers() as member failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("ListMembers() returned %d members, want 2", len(members))
	}

	if _, err := svc.ListMembers(context.Background(), strangerID, 10); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListMembers() as stranger error = %v, want ErrForbidden", err)
	}
}
