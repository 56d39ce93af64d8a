package models

import (
	"errors"
)

var (
	ErrRecordNotFound     = errors.New("models: no matching record found")
	ErrUnknownCollection  = errors.New("models: unknown collection")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrUnauthenticated    = errors.New("models: not signed in")
	ErrSessionExpired     = errors.New("models: session expired")
	ErrInvalidFormat      = errors.New("models: format not offered for item")
	ErrRateLimited        = errors.New("too many requests")
	ErrDispatchFailed     = errors.New("email dispatch failed")
	ErrInvalidRequest     = errors.New("invalid request")
)
