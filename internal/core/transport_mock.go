package core

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"
)

// MockTransport simulates a transport layer for testing: canned command
// responses and an in-memory filesystem keyed by path.
type MockTransport struct {
	mu         sync.Mutex
	Responses  map[string]string // Command -> Output
	Errors     map[string]error  // Command -> Error (output still returned)
	Files      map[string]string // Path -> Content; presence makes Stat succeed
	StatErrors map[string]error  // Path -> forced Stat error (e.g. EACCES)
	Calls      []string
	StatCalls  []string
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		Responses:  make(map[string]string),
		Errors:     make(map[string]error),
		Files:      make(map[string]string),
		StatErrors: make(map[string]error),
	}
}

// AddResponse registers a canned response for a command.
func (m *MockTransport) AddResponse(cmd, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[cmd] = output
}

// AddError registers a canned error for a command. Any response registered
// for the same command is still returned alongside it, mirroring combined
// output of a command that exits non-zero.
func (m *MockTransport) AddError(cmd string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[cmd] = err
}

// AddFile makes path exist in the mock filesystem with the given content.
func (m *MockTransport) AddFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = content
}

func (m *MockTransport) Execute(ctx context.Context, cmd string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, cmd)
	if err, ok := m.Errors[cmd]; ok {
		return m.Responses[cmd], err
	}
	if out, ok := m.Responses[cmd]; ok {
		return out, nil
	}
	return "", fmt.Errorf("unexpected command: %s", cmd)
}

func (m *MockTransport) FS() FileSystem { return &mockFS{m} }

func (m *MockTransport) Close() error { return nil }

// CallCount returns how many executed commands contained fragment.
func (m *MockTransport) CallCount(fragment string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, call := range m.Calls {
		if strings.Contains(call, fragment) {
			n++
		}
	}
	return n
}

type mockFS struct {
	m *MockTransport
}

func (f *mockFS) Stat(name string) (fs.FileInfo, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	f.m.StatCalls = append(f.m.StatCalls, name)
	if err, ok := f.m.StatErrors[name]; ok {
		return nil, err
	}
	if _, ok := f.m.Files[name]; ok {
		return mockFileInfo{name: name}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (f *mockFS) ReadFile(name string) ([]byte, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if content, ok := f.m.Files[name]; ok {
		return []byte(content), nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

type mockFileInfo struct {
	name string
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return 0 }
func (fi mockFileInfo) Mode() fs.FileMode  { return fs.ModeDir }
func (fi mockFileInfo) ModTime() time.Time { return time.Time{} }
func (fi mockFileInfo) IsDir() bool        { return true }
func (fi mockFileInfo) Sys() any           { return nil }
