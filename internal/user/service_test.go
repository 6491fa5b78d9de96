package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/user-records/internal/user"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

var errStore = errors.New("connection refused")

func TestUserService_CreateUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	testUser := &user.User{
		FirstName: "Ann",
		LastName:  "Lee",
		Phone:     "5551234567",
		Email:     "ann@example.com",
		Address:   "1 Main St",
	}
	stored := *testUser
	stored.ID = 42

	mockRepo.On("Create", mock.Anything, testUser).
		Return(&stored, nil).
		Once()

	createdUser, err := userService.CreateUser(context.Background(), testUser)

	require.NoError(t, err)
	require.NotNil(t, createdUser)
	require.Empty(t, cmp.Diff(stored, *createdUser))
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser_StoreError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
		Return(nil, errStore).
		Once()

	createdUser, err := userService.CreateUser(context.Background(), &user.User{Email: "a@b.co"})
	require.Error(t, err)
	require.ErrorIs(t, err, errStore)
	require.NotErrorIs(t, err, user.ErrNotFound)
	require.Nil(t, createdUser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	expected := []user.User{
		{ID: 1, FirstName: "Ann", Email: "ann@example.com"},
		{ID: 2, FirstName: "Bob", Email: "bob@example.com"},
	}

	mockRepo.On("List", mock.Anything).Return(expected, nil).Once()

	users, err := userService.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected, users))
	mockRepo.AssertExpectations(t)
}

func TestUserService_ListUsers_StoreError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	mockRepo.On("List", mock.Anything).Return(nil, errStore).Once()

	users, err := userService.ListUsers(context.Background())
	require.ErrorIs(t, err, errStore)
	require.Nil(t, users)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByID_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	expectedUser := user.User{
		ID:        7,
		FirstName: "Test",
		LastName:  "User",
		Phone:     "+15551234567",
		Email:     "getbyid@example.com",
		Address:   "2 Side St",
	}

	mockRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&expectedUser, nil).
		Once()

	foundUser, err := userService.GetUserByID(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, foundUser)
	diff := cmp.Diff(expectedUser, *foundUser)
	require.Empty(t, diff)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, int64(999)).
		Return(nil, user.ErrNotFound).
		Once()

	foundUser, err := userService.GetUserByID(context.Background(), 999)
	require.Error(t, err)
	require.ErrorIs(t, err, user.ErrNotFound)
	require.Nil(t, foundUser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetUserByID_StoreError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, int64(3)).
		Return(nil, errStore).
		Once()

	foundUser, err := userService.GetUserByID(context.Background(), 3)
	require.ErrorIs(t, err, errStore)
	require.NotErrorIs(t, err, user.ErrNotFound)
	require.Nil(t, foundUser)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	userToUpdate := user.User{
		ID:        5,
		FirstName: "Test_Updated",
		Email:     "updated@example.com",
	}

	mockRepo.On("Update", mock.Anything, &userToUpdate).
		Return(&userToUpdate, nil).
		Once()

	updated, err := userService.UpdateUser(context.Background(), &userToUpdate)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(userToUpdate, *updated))
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	userToUpdate := user.User{ID: 999, Email: "x@example.com"}

	mockRepo.On("Update", mock.Anything, &userToUpdate).
		Return(nil, user.ErrNotFound).
		Once()

	updated, err := userService.UpdateUser(context.Background(), &userToUpdate)
	require.Error(t, err)
	require.ErrorIs(t, err, user.ErrNotFound)
	require.Nil(t, updated)
	mockRepo.AssertExpectations(t)
}

func TestUserService_DeleteUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	snapshot := user.User{ID: 9, FirstName: "Gone"}

	mockRepo.On("Delete", mock.Anything, int64(9)).
		Return(&snapshot, nil).
		Once()

	deleted, err := userService.DeleteUser(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, snapshot, *deleted)
	mockRepo.AssertExpectations(t)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := user.NewService(mockRepo)

	mockRepo.On("Delete", mock.Anything, int64(9)).
		Return(nil, user.ErrNotFound).
		Once()

	deleted, err := userService.DeleteUser(context.Background(), 9)
	require.Error(t, err)
	require.ErrorIs(t, err, user.ErrNotFound)
	require.Nil(t, deleted)
	mockRepo.AssertExpectations(t)
}
