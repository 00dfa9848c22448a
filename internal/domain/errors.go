package domain

import "errors"

var (
	ErrNoFileUploaded      = errors.New("no file uploaded")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrExtractionFailed    = errors.New("document extraction failed")
	ErrRemoteAPI           = errors.New("remote API error")
	ErrResponseParse       = errors.New("model response could not be parsed")
	ErrNetwork             = errors.New("remote API unreachable")
	ErrInvalidRequest      = errors.New("invalid request")
)
