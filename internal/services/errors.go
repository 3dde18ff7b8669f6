package services

import "errors"

var (
	// ErrNotFound covers both a row that does not exist and a row owned
	// by a different user, so responses never leak existence.
	ErrNotFound = errors.New("resource not found")

	// ErrEmptyQuiz marks generation that produced zero questions; the
	// quiz must not be persisted in that case.
	ErrEmptyQuiz = errors.New("quiz generation produced no questions")

	// ErrNoQuestions guards the percentage computation against a zero
	// question count.
	ErrNoQuestions = errors.New("quiz has no questions to grade")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
