package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- MockGitClient Implementation ---

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run provides a mock function with given fields: ctx, repoPath, args.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}

// GetCommitLog provides a mock function with given fields: ctx, repoPath, format, startTime, endTime.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string, format string, startTime, endTime time.Time) ([]byte, error) {
	ret := m.Called(ctx, repoPath, format, startTime, endTime)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}

// GetRepoHash provides a mock function with given fields: ctx, repoPath.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetRepoRoot provides a mock function with given fields: ctx, contextPath.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// --- MockClocClient Implementation ---

// MockClocClient is a mock type for the ClocClient type.
type MockClocClient struct {
	mock.Mock
}

var _ ClocClient = &MockClocClient{} // Compile-time check

// CountByFile provides a mock function with given fields: ctx, repoPath.
func (m *MockClocClient) CountByFile(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}
