package scrape

import "fmt"

// FetchError is a transport-level failure fetching a page.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError means the page was fetched but expected structure was
// missing or malformed.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Reason)
}
