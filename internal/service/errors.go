package service

import "errors"

var (
	ErrSessionNotFound     = errors.New("research session not found")
	ErrSessionExists       = errors.New("research session already exists")
	ErrReportNotFound      = errors.New("report not found")
	ErrChatSessionNotFound = errors.New("chat session not found")
	ErrInvalidQuery        = errors.New("query is required")
)
