package mocks

import (
	"github.com/stretchr/testify/mock"

	"realtime-service/internal/auth"
	"realtime-service/internal/models"
)

// EmitterMock records event fan-out for service tests.
type EmitterMock struct {
	mock.Mock
}

func (m *EmitterMock) ToConn(connID string, event models.ServerEvent) {
	m.Called(connID, event)
}

func (m *EmitterMock) ToUser(userID string, event models.ServerEvent) bool {
	args := m.Called(userID, event)
	return args.Bool(0)
}

// VerifierMock stands in for the token-verification collaborator.
type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

var _ auth.TokenVerifier = (*VerifierMock)(nil)
