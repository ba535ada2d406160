package enumerate

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Nicoretti/usb-info/pkg/usb"
)

// MockEnumerator is a testify mock implementing Enumerator.
type MockEnumerator struct {
	mock.Mock
}

type MockEnumerator_Expecter struct {
	mock *mock.Mock
}

func (_m *MockEnumerator) EXPECT() *MockEnumerator_Expecter {
	return &MockEnumerator_Expecter{mock: &_m.Mock}
}

// Enumerate provides a mock function with given fields: ctx
func (_m *MockEnumerator) Enumerate(ctx context.Context) ([]usb.Record, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Enumerate")
	}

	var r0 []usb.Record
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]usb.Record, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []usb.Record); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]usb.Record)
	}
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockEnumerator_Enumerate_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Enumerate'
type MockEnumerator_Enumerate_Call struct {
	*mock.Call
}

// Enumerate is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockEnumerator_Expecter) Enumerate(ctx interface{}) *MockEnumerator_Enumerate_Call {
	return &MockEnumerator_Enumerate_Call{Call: _e.mock.On("Enumerate", ctx)}
}

func (_c *MockEnumerator_Enumerate_Call) Run(run func(ctx context.Context)) *MockEnumerator_Enumerate_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockEnumerator_Enumerate_Call) Return(records []usb.Record, err error) *MockEnumerator_Enumerate_Call {
	_c.Call.Return(records, err)
	return _c
}

// NewMockEnumerator creates a new instance of MockEnumerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockEnumerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEnumerator {
	m := &MockEnumerator{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
