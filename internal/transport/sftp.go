package transport

import (
	"io"
	"io/fs"

	"github.com/pkg/sftp"
)

// SFTPFS implements core.FileSystem over an SFTP connection, so the boot
// marker stat and host detection work on remote targets.
type SFTPFS struct {
	client *sftp.Client
}

func NewSFTPFS(client *sftp.Client) *SFTPFS {
	return &SFTPFS{client: client}
}

func (f *SFTPFS) Stat(name string) (fs.FileInfo, error) {
	return f.client.Stat(name)
}

func (f *SFTPFS) ReadFile(name string) ([]byte, error) {
	file, err := f.client.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
