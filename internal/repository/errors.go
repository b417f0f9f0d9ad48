package repository

import "errors"

var (
	ErrNotFound    = errors.New("task not found")
	ErrTitleExists = errors.New("task title already exists")
)
