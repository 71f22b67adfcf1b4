// Package mocks provides mock implementations for testing commands and handlers.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	padDomain "github.com/thorsten-l/l9g-accountinfo/internal/pad/domain"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
)

// MockPadUseCase is a mock implementation of PadUseCase for testing.
type MockPadUseCase struct {
	mock.Mock
}

// Create mocks the Create method of PadUseCase.
func (m *MockPadUseCase) Create(ctx context.Context, name string) (*padDomain.Pad, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*padDomain.Pad), args.Error(1)
}

// Get mocks the Get method of PadUseCase.
func (m *MockPadUseCase) Get(ctx context.Context, padUUID string) (*padDomain.Pad, error) {
	args := m.Called(ctx, padUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*padDomain.Pad), args.Error(1)
}

// IssueKey mocks the IssueKey method of PadUseCase.
func (m *MockPadUseCase) IssueKey(
	ctx context.Context,
	padUUID string,
) (*padService.KeyPair, *padDomain.Pad, error) {
	args := m.Called(ctx, padUUID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*padService.KeyPair), args.Get(1).(*padDomain.Pad), args.Error(2)
}

// Validate mocks the Validate method of PadUseCase.
func (m *MockPadUseCase) Validate(ctx context.Context, padUUID, envelope string) (*padDomain.Pad, error) {
	args := m.Called(ctx, padUUID, envelope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*padDomain.Pad), args.Error(1)
}

// Delete mocks the Delete method of PadUseCase.
func (m *MockPadUseCase) Delete(ctx context.Context, padUUID string) error {
	args := m.Called(ctx, padUUID)
	return args.Error(0)
}
