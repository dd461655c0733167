package classifier

import (
	"context"
	"errors"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
)

// ErrClassifierUnavailable marks infrastructure failures during scoring.
// The pipeline absorbs it into a fail-closed block, it never reaches the
// transport layer.
var ErrClassifierUnavailable = errors.New("classifier service unavailable")

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=classifier_client_mock.go --case=underscore --with-expecter
type Client interface {
	Score(ctx context.Context, text string) (checker.ScoreResult, error)
}
