package admin

import "errors"

var ErrUnknownAction = errors.New("unknown admin action")
