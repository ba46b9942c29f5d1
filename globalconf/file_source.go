package globalconf

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
)

// FileSource loads parameters from a TOML file.
type FileSource struct {
	path string
}

var _ Source = (*FileSource)(nil)

func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, ErrEmptySourcePath
	}
	return &FileSource{path: path}, nil
}

func (s *FileSource) ID() string {
	return "file:" + s.path
}

func (s *FileSource) Load(ctx context.Context) (map[string]any, error) {
	if er := ctx.Err(); er != nil {
		return nil, er
	}
	values := make(map[string]any)
	if _, er := toml.DecodeFile(s.path, &values); er != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, er)
	}
	return values, nil
}
