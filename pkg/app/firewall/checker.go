package firewall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/cache"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/classifier"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

const failClosedReason = "safety classifier unavailable, input blocked as a precaution"

//go:generate mockery --name=InputChecker --dir=. --output=./mocks --filename=input_checker_mock.go --case=underscore --with-expecter
type InputChecker interface {
	Check(ctx context.Context, req checker.CheckRequest) (checker.CheckResult, error)
}

type Config struct {
	MaxInputLength    int
	ClassifierTimeout time.Duration
	ResponderTimeout  time.Duration
}

type inputChecker struct {
	logger     *logrus.Logger
	policy     *checker.PolicyEngine
	classifier classifier.Client
	responder  responderClient
	rules      *RuleInspector
	scoreCache *cache.ScoreCache
	config     Config
}

// responderClient is the downstream generation capability. Declared locally
// so the pipeline depends on the contract, not the infra package.
type responderClient interface {
	Generate(ctx context.Context, text string) (string, error)
}

func NewInputChecker(
	logger *logrus.Logger,
	policy *checker.PolicyEngine,
	classifierClient classifier.Client,
	responderClient responderClient,
	rules *RuleInspector,
	scoreCache *cache.ScoreCache,
	config Config,
) InputChecker {
	if config.MaxInputLength <= 0 {
		config.MaxInputLength = 10000
	}
	if config.ClassifierTimeout <= 0 {
		config.ClassifierTimeout = 30 * time.Second
	}
	if config.ResponderTimeout <= 0 {
		config.ResponderTimeout = 60 * time.Second
	}
	return &inputChecker{
		logger:     logger,
		policy:     policy,
		classifier: classifierClient,
		responder:  responderClient,
		rules:      rules,
		scoreCache: scoreCache,
		config:     config,
	}
}

// Check runs one request through the pipeline: validate, rule checks,
// score, decide, respond, assemble. Infrastructure failures are absorbed
// at the stage where they occur; the only error returned to the caller is
// checker.ErrInvalidInput.
func (s *inputChecker) Check(ctx context.Context, req checker.CheckRequest) (checker.CheckResult, error) {
	start := time.Now()

	if err := s.validate(req); err != nil {
		prometheus.InvalidInputTotal.Inc()
		return checker.CheckResult{}, err
	}

	if match := s.rules.Inspect(req.Text); match != nil {
		prometheus.RuleBlockTotal.WithLabelValues(match.Rule).Inc()
		result := checker.CheckResult{
			Verdict: checker.VerdictBlock,
			Reason:  match.Reason,
			Score:   1.0,
		}
		s.observe(req, result, start)
		return result, nil
	}

	scoreResult, degraded := s.score(ctx, req.Text)

	decision := s.policy.Decide(scoreResult, req.SecurityLevel)
	reason := decision.Reason
	if degraded && decision.Blocked() {
		reason = failClosedReason
	}

	result := checker.CheckResult{
		Verdict: decision.Verdict,
		Reason:  reason,
		Score:   scoreResult.Score,
	}

	if !decision.Blocked() {
		result.Response = s.respond(ctx, req.Text)
	}

	s.observe(req, result, start)
	return result, nil
}

func (s *inputChecker) validate(req checker.CheckRequest) error {
	if len(req.Text) == 0 {
		return &checker.ErrInvalidInput{Msg: "text must not be empty"}
	}
	if len(req.Text) > s.config.MaxInputLength {
		return &checker.ErrInvalidInput{
			Msg: fmt.Sprintf("text exceeds maximum length of %d characters", s.config.MaxInputLength),
		}
	}
	return nil
}

// score consults the cache, then the classifier. A classifier outage
// degrades to a synthetic UNSAFE result so the caller still receives a
// structured verdict; the second return reports that degradation.
func (s *inputChecker) score(ctx context.Context, text string) (checker.ScoreResult, bool) {
	if s.scoreCache != nil {
		if cached, ok := s.scoreCache.Get(ctx, text); ok {
			prometheus.ScoreCacheHitTotal.Inc()
			return cached, false
		}
	}

	scoreCtx, cancel := context.WithTimeout(ctx, s.config.ClassifierTimeout)
	defer cancel()

	scoreStart := time.Now()
	result, err := s.classifier.Score(scoreCtx, text)
	prometheus.CheckRequestLatency.WithLabelValues("score").Observe(float64(time.Since(scoreStart).Milliseconds()))

	if err != nil {
		prometheus.ClassifierFailureTotal.Inc()
		if !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Warn("classifier unavailable, failing closed")
		}
		return checker.ScoreResult{Score: 1.0, Label: checker.LabelUnsafe}, true
	}

	if s.scoreCache != nil {
		s.scoreCache.Set(ctx, text, result)
	}
	return result, false
}

// respond invokes the downstream model for allowed input. A responder
// outage yields an empty response and never flips the verdict.
func (s *inputChecker) respond(ctx context.Context, text string) string {
	respondCtx, cancel := context.WithTimeout(ctx, s.config.ResponderTimeout)
	defer cancel()

	respondStart := time.Now()
	response, err := s.responder.Generate(respondCtx, text)
	prometheus.CheckRequestLatency.WithLabelValues("respond").Observe(float64(time.Since(respondStart).Milliseconds()))

	if err != nil {
		prometheus.ResponderFailureTotal.Inc()
		if !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Warn("responder unavailable, returning empty response")
		}
		return ""
	}
	return response
}

func (s *inputChecker) observe(req checker.CheckRequest, result checker.CheckResult, start time.Time) {
	prometheus.CheckRequestTotal.WithLabelValues(string(result.Verdict), string(req.SecurityLevel)).Inc()
	prometheus.CheckRequestLatency.WithLabelValues("total").Observe(float64(time.Since(start).Milliseconds()))

	user := req.UserID
	if user == "" {
		user = "anonymous"
	}
	s.logger.WithFields(logrus.Fields{
		"user":           user,
		"security_level": req.SecurityLevel,
		"verdict":        result.Verdict,
		"score":          result.Score,
	}).Info("input check completed")
}
