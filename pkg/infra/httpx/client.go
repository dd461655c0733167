package httpx

import "net/http"

// Client abstracts *http.Client so transports can be faked in tests.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
