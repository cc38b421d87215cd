package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// MocksessionRepo is a mock type for the sessionRepo type
type MocksessionRepo struct {
	mock.Mock
}

type MocksessionRepo_Expecter struct {
	mock *mock.Mock
}

func (_m *MocksessionRepo) EXPECT() *MocksessionRepo_Expecter {
	return &MocksessionRepo_Expecter{mock: &_m.Mock}
}

// CreateOrUpdate provides a mock function with given fields: ctx, session
func (_m *MocksessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	ret := _m.Called(ctx, session)

	if len(ret) == 0 {
		panic("no return value specified for CreateOrUpdate")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Session) error); ok {
		r0 = rf(ctx, session)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MocksessionRepo_CreateOrUpdate_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CreateOrUpdate'
type MocksessionRepo_CreateOrUpdate_Call struct {
	*mock.Call
}

// CreateOrUpdate is a helper method to define mock.On call
//   - ctx context.Context
//   - session *entity.Session
func (_e *MocksessionRepo_Expecter) CreateOrUpdate(ctx interface{}, session interface{}) *MocksessionRepo_CreateOrUpdate_Call {
	return &MocksessionRepo_CreateOrUpdate_Call{Call: _e.mock.On("CreateOrUpdate", ctx, session)}
}

func (_c *MocksessionRepo_CreateOrUpdate_Call) Run(run func(ctx context.Context, session *entity.Session)) *MocksessionRepo_CreateOrUpdate_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Session))
	})
	return _c
}

func (_c *MocksessionRepo_CreateOrUpdate_Call) Return(_a0 error) *MocksessionRepo_CreateOrUpdate_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MocksessionRepo_CreateOrUpdate_Call) RunAndReturn(run func(context.Context, *entity.Session) error) *MocksessionRepo_CreateOrUpdate_Call {
	_c.Call.Return(run)
	return _c
}

// DeleteByID provides a mock function with given fields: ctx, id
func (_m *MocksessionRepo) DeleteByID(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteByID")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MocksessionRepo_DeleteByID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DeleteByID'
type MocksessionRepo_DeleteByID_Call struct {
	*mock.Call
}

// DeleteByID is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MocksessionRepo_Expecter) DeleteByID(ctx interface{}, id interface{}) *MocksessionRepo_DeleteByID_Call {
	return &MocksessionRepo_DeleteByID_Call{Call: _e.mock.On("DeleteByID", ctx, id)}
}

func (_c *MocksessionRepo_DeleteByID_Call) Run(run func(ctx context.Context, id string)) *MocksessionRepo_DeleteByID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MocksessionRepo_DeleteByID_Call) Return(_a0 error) *MocksessionRepo_DeleteByID_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MocksessionRepo_DeleteByID_Call) RunAndReturn(run func(context.Context, string) error) *MocksessionRepo_DeleteByID_Call {
	_c.Call.Return(run)
	return _c
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MocksessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetByID")
	}

	var r0 *entity.Session
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*entity.Session, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *entity.Session); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*entity.Session)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MocksessionRepo_GetByID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetByID'
type MocksessionRepo_GetByID_Call struct {
	*mock.Call
}

// GetByID is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MocksessionRepo_Expecter) GetByID(ctx interface{}, id interface{}) *MocksessionRepo_GetByID_Call {
	return &MocksessionRepo_GetByID_Call{Call: _e.mock.On("GetByID", ctx, id)}
}

func (_c *MocksessionRepo_GetByID_Call) Run(run func(ctx context.Context, id string)) *MocksessionRepo_GetByID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MocksessionRepo_GetByID_Call) Return(_a0 *entity.Session, _a1 error) *MocksessionRepo_GetByID_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MocksessionRepo_GetByID_Call) RunAndReturn(run func(context.Context, string) (*entity.Session, error)) *MocksessionRepo_GetByID_Call {
	_c.Call.Return(run)
	return _c
}

// NewMocksessionRepo creates a new instance of MocksessionRepo. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMocksessionRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *MocksessionRepo {
	mock := &MocksessionRepo{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
