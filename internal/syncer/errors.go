package syncer

import "errors"

var (
	ErrWrite           = errors.New("store write failed")
	ErrSync            = errors.New("store sync failed")
	ErrUnparseableTime = errors.New("unparseable time value")
	ErrMalformedRecord = errors.New("malformed record")
)
