package reader

import (
	"fmt"
	"os"
)

// ReplayFile is a replay file read fully into memory
type ReplayFile struct {
	path string
	data []byte
}

// OpenReplayFile reads the whole file at path
func OpenReplayFile(path string) (*ReplayFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay file %s: %w", path, err)
	}
	return &ReplayFile{path: path, data: data}, nil
}

// Path returns the path the replay was read from
func (f *ReplayFile) Path() string {
	return f.path
}

// Data returns the raw file contents
func (f *ReplayFile) Data() []byte {
	return f.data
}

// Size returns the file size in bytes
func (f *ReplayFile) Size() int {
	return len(f.data)
}

// Header resolves the container header, expecting magic
func (f *ReplayFile) Header(magic uint32) (*ExtendedReplayHeader, error) {
	h, err := ResolveHeader(f.data, magic)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return h, nil
}
