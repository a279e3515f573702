// Package recommend orchestrates the per-turn recommendation flow: product
// screening plus matching on one side, problem classification plus rule
// pairing on the other, merged into a single deduplicated product list.
package recommend

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Screener extracts product-name mentions from text.
type Screener interface {
	Screen(ctx context.Context, text string, usage *model.TokenUsage) ([]string, error)
}

// Matcher resolves name mentions against the catalog.
type Matcher interface {
	Match(ctx context.Context, names []string) (*model.MatchResult, error)
}

// Classifier maps text to rule-table problem labels.
type Classifier interface {
	Classify(ctx context.Context, text string, usage *model.TokenUsage) ([]string, error)
}

// Pairer evaluates the rule table for problem labels.
type Pairer interface {
	Pair(ctx context.Context, problems []string) (*model.PairingResult, error)
}

// Engine runs both recommendation pipelines for a chat turn.
type Engine struct {
	screener   Screener
	matcher    Matcher
	classifier Classifier
	pairer     Pairer
}

// NewEngine wires the four stages together.
func NewEngine(s Screener, m Matcher, c Classifier, p Pairer) *Engine {
	return &Engine{screener: s, matcher: m, classifier: c, pairer: p}
}

// Recommend runs the two pipelines concurrently and merges their results.
// Problems are classified from the user's message; product mentions are
// screened out of the assistant's reply. Each pipeline's failure is isolated:
// a dead screening stage still yields pairing results and vice versa, with
// the failure reason recorded on the result. The call errors only when the
// context dies or both pipelines fail.
func (e *Engine) Recommend(ctx context.Context, userMessage, replyText string) (*model.RecommendationSet, *model.TokenUsage, error) {
	var (
		screenUsage model.TokenUsage
		pairUsage   model.TokenUsage

		matchResult *model.MatchResult
		pairResult  *model.PairingResult
		screenErr   error
		pairErr     error
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		names, err := e.screener.Screen(gCtx, replyText, &screenUsage)
		if err != nil {
			screenErr = err
			return nil
		}
		matchResult, err = e.matcher.Match(gCtx, names)
		if err != nil {
			screenErr = err
		}
		return nil
	})

	g.Go(func() error {
		problems, err := e.classifier.Classify(gCtx, userMessage, &pairUsage)
		if err != nil {
			pairErr = err
			return nil
		}
		pairResult, err = e.pairer.Pair(gCtx, problems)
		if err != nil {
			pairErr = err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, eris.Wrap(err, "recommend: pipelines")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "recommend: context")
	}
	if screenErr != nil && pairErr != nil {
		return nil, nil, eris.Wrap(screenErr, "recommend: both pipelines failed")
	}

	set := &model.RecommendationSet{}

	var screened []model.Match
	if screenErr != nil {
		set.ScreeningError = screenErr.Error()
		zap.L().Warn("recommend: screening pipeline failed", zap.Error(screenErr))
	} else if matchResult != nil {
		screened = matchResult.Matches
		set.Unmatched = matchResult.Unmatched
	}

	var paired []model.Recommendation
	if pairErr != nil {
		set.PairingError = pairErr.Error()
		zap.L().Warn("recommend: pairing pipeline failed", zap.Error(pairErr))
	} else if pairResult != nil {
		paired = pairResult.Products
		set.Problems = pairResult.Problems
		set.AloeRecommended = pairResult.AloeRecommended
		set.AloeProduct = pairResult.AloeProduct
		set.MerkabaRecommended = pairResult.MerkabaRecommended
	}

	set.Products = Merge(screened, paired)

	usage := model.TokenUsage{
		InputTokens:  screenUsage.InputTokens + pairUsage.InputTokens,
		OutputTokens: screenUsage.OutputTokens + pairUsage.OutputTokens,
	}

	zap.L().Info("recommend: turn complete",
		zap.Int("products", len(set.Products)),
		zap.Int("unmatched", len(set.Unmatched)),
		zap.Strings("problems", set.Problems),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	)

	return set, &usage, nil
}
