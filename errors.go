package hybridjoin

import "errors"

// ErrInvariantViolation marks a class-5 error: the core detected a state
// it considers impossible (e.g. a Hash Index delete that should have
// succeeded did not). These are fatal; the caller should abort the run
// with whatever diagnostic state it can gather.
var ErrInvariantViolation = errors.New("hybridjoin: invariant violation")

// ErrMasterMiss marks a class-3 condition: no master-relation row for a
// key the Join Worker needed to enrich. Not an error in the Go sense,
// callers use this to label a release, never to abort.
var ErrMasterMiss = errors.New("hybridjoin: master relation miss")
