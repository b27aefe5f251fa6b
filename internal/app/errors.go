package app

import "errors"

var (
	ErrEmptyInput = errors.New("query is empty")
	ErrRetrieval  = errors.New("knowledge retrieval failed")
	ErrGeneration = errors.New("answer generation failed")
)
