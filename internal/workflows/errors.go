package workflows

import "errors"

var (
	// ErrSelectFailed is returned when a library's candidates cannot be queried
	ErrSelectFailed = errors.New("candidate selection failed")

	// ErrDecodeFailed is returned when an original cannot be decoded
	ErrDecodeFailed = errors.New("image decode failed")

	// ErrEncodeFailed is returned when the corrected image cannot be encoded
	ErrEncodeFailed = errors.New("image encode failed")

	// ErrUploadFailed is returned when the corrected image cannot be written back
	ErrUploadFailed = errors.New("upload failed")
)
