package mocks

import (
	"context"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/brettbedarf/nativefs"
)

var _ nativefs.Facade = (*MockFacade)(nil)

// MockFacade implements nativefs.Facade for testing across packages
type MockFacade struct {
	mock.Mock
}

func (m *MockFacade) Touch(path string, t time.Time) error {
	args := m.Called(path, t)
	return args.Error(0)
}

func (m *MockFacade) CreateFile(path string, mode os.FileMode) error {
	args := m.Called(path, mode)
	return args.Error(0)
}

func (m *MockFacade) CreateDir(path string, mode os.FileMode, recursive bool) error {
	args := m.Called(path, mode, recursive)
	return args.Error(0)
}

func (m *MockFacade) ReadFile(path string, lock bool) ([]byte, error) {
	args := m.Called(path, lock)

	// Handle nil returns
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFacade) ReadString(path string, lock bool) string {
	args := m.Called(path, lock)
	return args.String(0)
}

func (m *MockFacade) ReadFileLines(path string, skipEmpty bool) ([]string, error) {
	args := m.Called(path, skipEmpty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFacade) WriteFile(path string, content []byte, lock bool) error {
	args := m.Called(path, content, lock)
	return args.Error(0)
}

func (m *MockFacade) AppendFile(path string, content []byte, lock bool) error {
	args := m.Called(path, content, lock)
	return args.Error(0)
}

func (m *MockFacade) PrependFile(path string, content []byte, lock bool) error {
	args := m.Called(path, content, lock)
	return args.Error(0)
}

func (m *MockFacade) WriteFileAtomic(path string, content []byte, mode os.FileMode) error {
	args := m.Called(path, content, mode)
	return args.Error(0)
}

func (m *MockFacade) Size(path string) int64 {
	args := m.Called(path)
	return args.Get(0).(int64)
}

func (m *MockFacade) ListDir(path string, opts nativefs.ListOptions) ([]string, error) {
	args := m.Called(path, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFacade) HashFile(path string, typ nativefs.HashType) (string, error) {
	args := m.Called(path, typ)
	return args.String(0), args.Error(1)
}

func (m *MockFacade) Rename(from, to string) error {
	args := m.Called(from, to)
	return args.Error(0)
}

func (m *MockFacade) Delete(path string, recursive bool) error {
	args := m.Called(path, recursive)
	return args.Error(0)
}

func (m *MockFacade) Copy(from, to string, replace bool) error {
	args := m.Called(from, to, replace)
	return args.Error(0)
}

func (m *MockFacade) CopyVerified(from, to string, replace bool) error {
	args := m.Called(from, to, replace)
	return args.Error(0)
}

func (m *MockFacade) Move(from, to string, replace bool) error {
	args := m.Called(from, to, replace)
	return args.Error(0)
}

func (m *MockFacade) Mimetype(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *MockFacade) Chmod(path string, mode os.FileMode) (string, error) {
	args := m.Called(path, mode)
	return args.String(0), args.Error(1)
}

func (m *MockFacade) GetPermissions(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *MockFacade) SetPermissions(path string, mode os.FileMode) error {
	args := m.Called(path, mode)
	return args.Error(0)
}

func (m *MockFacade) Type(path string) (nativefs.FileType, error) {
	args := m.Called(path)
	return args.Get(0).(nativefs.FileType), args.Error(1)
}

func (m *MockFacade) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFacade) IsFile(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFacade) IsDir(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFacade) IsReadable(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFacade) IsWritable(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFacade) Atime(path string) (int64, error) {
	args := m.Called(path)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFacade) Ctime(path string) (int64, error) {
	args := m.Called(path)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFacade) Mtime(path string) (int64, error) {
	args := m.Called(path)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFacade) Export(path string, data any) error {
	args := m.Called(path, data)
	return args.Error(0)
}

func (m *MockFacade) Import(path string, out any) error {
	args := m.Called(path, out)

	// Handle function return types to fill out
	if fn, ok := args.Get(0).(func(any) error); ok {
		return fn(out)
	}
	return args.Error(0)
}

func (m *MockFacade) Find(ctx context.Context, root, pattern string) ([]string, error) {
	args := m.Called(ctx, root, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
