package htmldoc

import "errors"

var (
	// ErrNotDirectory indicates the corpus root is missing or not a directory.
	ErrNotDirectory = errors.New("corpus root is not a directory")

	// ErrParse indicates a page could not be read as HTML.
	ErrParse = errors.New("parse html")
)
