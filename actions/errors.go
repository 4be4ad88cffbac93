package actions

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a failure of a sync run.
type ErrorKind int

const (
	ConfigurationDefault ErrorKind = iota + 1 // never fatal
	DependencyMissing
	ConnectivityFailure
	LockContention
	InspectionFailure
	TruncateFailure
	TransferFailure
	IndexFailure
	IndexAlreadyExists // benign
	SequenceNotFound   // benign
	StatisticsRefreshFailure
)

var errorKindNames = map[ErrorKind]string{
	ConfigurationDefault:     "ConfigurationDefault",
	DependencyMissing:        "DependencyMissing",
	ConnectivityFailure:      "ConnectivityFailure",
	LockContention:           "LockContention",
	InspectionFailure:        "InspectionFailure",
	TruncateFailure:          "TruncateFailure",
	TransferFailure:          "TransferFailure",
	IndexFailure:             "IndexFailure",
	IndexAlreadyExists:       "IndexAlreadyExists",
	SequenceNotFound:         "SequenceNotFound",
	StatisticsRefreshFailure: "StatisticsRefreshFailure",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Fatal reports whether a failure of this kind ends the run.
func (k ErrorKind) Fatal() bool {
	switch k {
	case ConfigurationDefault, IndexAlreadyExists, SequenceNotFound, StatisticsRefreshFailure:
		return false
	}
	return true
}

// SyncError is a failure of a sync run, tagged with its kind and the state the run was in.
type SyncError struct {
	Kind  ErrorKind
	State State
	Err   error
}

func newSyncError(kind ErrorKind, state State, err error, msg string) *SyncError {
	return &SyncError{Kind: kind, State: state, Err: errors.Wrap(err, msg)}
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%v after state %v: %v", e.Kind, e.State, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error for github.com/pkg/errors.
func (e *SyncError) Cause() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 when err is not a SyncError.
func KindOf(err error) ErrorKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
