package repository

import "errors"

var ErrNotFound = errors.New("todo not found")
