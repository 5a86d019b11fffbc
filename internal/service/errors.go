package service

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP
// status codes and API error codes with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrExamNotActive      = errors.New("exam not active")
	ErrAlreadySubmitted   = errors.New("exam already submitted")
	ErrNoQuestions        = errors.New("exam has no questions")
	ErrQuestionMissing    = errors.New("question does not exist")
)
