package core

import (
	"io/fs"
	"os"
)

// FileSystem abstracts the filesystem calls probes make, so they can run
// against a remote host over SFTP and be mocked in tests.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// RealFS is the local implementation backed by the os package.
type RealFS struct{}

func (f *RealFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (f *RealFS) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
