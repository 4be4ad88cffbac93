package rdbms

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abys/geosync/constants"
	"github.com/abys/geosync/logger"
	"github.com/allisson/go-pglock/v3"
	"github.com/spaolacci/murmur3"
)

// ErrLockHeld is returned by AcquireRunLock when another run of the same job holds the lock.
var ErrLockHeld = fmt.Errorf("another run of this job holds the lock")

// RunLock is a session-level advisory lock held on the source database for the duration of a run.
type RunLock struct {
	Key    int64
	unlock func(context.Context) error
	close  func() error
	log    logger.Logger
}

// LockKey maps a job name onto the advisory lock id space.
func LockKey(job string) int64 {
	return int64(murmur3.Sum64([]byte(constants.LockNamespace + job)))
}

// AcquireRunLock tries once to take the advisory lock for job and returns ErrLockHeld if it is taken.
func AcquireRunLock(ctx context.Context, log logger.Logger, db *sql.DB, job string) (*RunLock, error) {
	if db == nil {
		return nil, fmt.Errorf("unable to lock job %q: no source database connection", job)
	}
	key := LockKey(job)
	l, err := pglock.NewLock(ctx, key, db)
	if err != nil {
		return nil, fmt.Errorf("creating run lock for job %q: %w", job, err)
	}
	ok, err := l.Lock(ctx)
	if err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("acquiring run lock for job %q: %w", job, err)
	}
	if !ok {
		_ = l.Close()
		return nil, fmt.Errorf("job %q (lock %v): %w", job, key, ErrLockHeld)
	}
	log.Debug("acquired run lock ", key, " for job ", job)
	return &RunLock{Key: key, unlock: l.Unlock, close: l.Close, log: log}, nil
}

// Release unlocks and returns the dedicated connection. It is safe to call on a nil RunLock.
func (r *RunLock) Release(ctx context.Context) {
	if r == nil || r.unlock == nil {
		return
	}
	if err := r.unlock(ctx); err != nil {
		r.log.Warn("unable to release run lock ", r.Key, ": ", err)
	}
	if err := r.close(); err != nil {
		r.log.Warn("unable to close run lock connection: ", err)
	}
	r.unlock = nil
	r.log.Debug("released run lock ", r.Key)
}
