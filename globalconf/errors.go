package globalconf

import "errors"

var (
	ErrEmptySourcePath = errors.New("configuration source path is empty")
	ErrEmptyBucketName = errors.New("configuration bucket name is empty")
	ErrBucketNotFound  = errors.New("configuration bucket not found")
	ErrNilSource       = errors.New("configuration source is nil")
)
