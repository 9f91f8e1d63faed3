package game

import "errors"

// ErrRejected matches every input the session refuses. A rejected command
// changes nothing; the session logs it and the caller reports it.
var ErrRejected = errors.New("rejected")

type rejection string

func (r rejection) Error() string        { return string(r) }
func (r rejection) Is(target error) bool { return target == ErrRejected }

var (
	ErrNotStarted       error = rejection("no breach in progress")
	ErrAlreadyPlaying   error = rejection("breach already in progress")
	ErrWrongEntry       error = rejection("start from the entry node")
	ErrAlreadyHacked    error = rejection("node already compromised")
	ErrChallengePending error = rejection("finish the current hack first")
	ErrNoChallenge      error = rejection("no hack in progress")
	ErrOutOfRange       error = rejection("no such node")
)
