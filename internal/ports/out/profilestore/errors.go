package profilestore

import "errors"

var ErrNotFound = errors.New("profile not found")
