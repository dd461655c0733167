package responder

import (
	"context"
	"errors"
)

// ErrResponderUnavailable marks infrastructure failures during downstream
// generation. The pipeline degrades it to an allowed result with an empty
// response; it never flips a verdict.
var ErrResponderUnavailable = errors.New("responder service unavailable")

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=responder_client_mock.go --case=underscore --with-expecter
type Client interface {
	Generate(ctx context.Context, text string) (string, error)
}
