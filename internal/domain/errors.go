package domain

import "errors"

var (
	ErrConnectivity = errors.New("network unreachable")
	ErrFetch        = errors.New("fetch countries")
	ErrStorageInit  = errors.New("storage init")
	ErrStorageWrite = errors.New("storage write")
	ErrStorageRead  = errors.New("storage read")
	ErrDecode       = errors.New("decode countries")
)
