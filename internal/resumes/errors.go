package resumes

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("only PDF and DOCX files are supported")
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
)

// Pipeline stages.
const (
	StageStore = "store"
	StageParse = "parse"
	StageIndex = "index"
)

// StageError is a failure of one upload pipeline stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
