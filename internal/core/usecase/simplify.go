package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/ports"
)

const (
	// ErrorMarker prefixes every user-visible sentinel produced when the
	// external rewriter misbehaves. The report assembler launders any
	// explanation still carrying it.
	ErrorMarker = "[!]"

	EmptyClauseSentinel = ErrorMarker + " Clause is empty."

	// RewriteErrorSentinel replaces the explanation when the external
	// rewrite call fails outright.
	RewriteErrorSentinel = ErrorMarker + " Error during clause simplification."

	// echoThreshold is the similarity ratio above which a "simplification"
	// counts as a near-verbatim echo of its input.
	echoThreshold = 0.85
)

// fallbackRules maps legal-term triggers to canned plain-English sentences,
// checked in order; first match wins.
var fallbackRules = []struct {
	trigger  string
	sentence string
}{
	{"liability", "You are fully responsible for anything that happens under this clause."},
	{"termination", "Either side can end the contract by giving a short written notice."},
	{"arbitration", "Disputes will be resolved outside court by a private arbitrator."},
	{"indemnify", "You agree to cover any losses or costs the other party faces."},
	{"non-disclosure", "You must keep shared information confidential."},
	{"non-compete", "You cannot work with competitors for a specific time."},
}

const genericFallback = "This clause may pose legal risks and should be reviewed carefully."

// GuardedSimplifier wraps the external rewriter with the similarity guard
// and the rule-based fallback. Simplify never returns an error: a failing
// external call yields a marker sentinel (laundered at render time), and a
// degenerate response degrades to the rule-based rewrite.
type GuardedSimplifier struct {
	rewriter   ports.ClauseRewriter
	logger     *slog.Logger
	onFallback func()
}

func NewGuardedSimplifier(rewriter ports.ClauseRewriter, logger *slog.Logger) *GuardedSimplifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardedSimplifier{rewriter: rewriter, logger: logger}
}

// SetFallbackHook registers a callback fired whenever a rewrite degrades to
// the rule-based fallback, for fallback-rate observability.
func (g *GuardedSimplifier) SetFallbackHook(fn func()) {
	g.onFallback = fn
}

func (g *GuardedSimplifier) fallback(clause string) string {
	if g.onFallback != nil {
		g.onFallback()
	}
	return FallbackSimplify(clause)
}

func (g *GuardedSimplifier) Simplify(ctx context.Context, clause string) string {
	cleaned := strings.TrimSpace(clause)
	if cleaned == "" {
		return EmptyClauseSentinel
	}

	generated, err := g.rewriter.Rewrite(ctx, cleaned)
	if err != nil {
		g.logger.Warn("clause rewrite failed", "error", err)
		return RewriteErrorSentinel
	}

	generated = strings.ReplaceAll(strings.TrimSpace(generated), " .", ".")
	if generated == "" {
		return g.fallback(cleaned)
	}

	// A near-verbatim response means the model degenerated into an echo.
	if similarityRatio(cleaned, generated) > echoThreshold {
		g.logger.Debug("rewrite too similar to source clause, using fallback")
		return g.fallback(cleaned)
	}
	return generated
}

// FallbackSimplify is the deterministic, dependency-free rewrite used when
// the external call echoes its input or produces nothing.
func FallbackSimplify(clause string) string {
	lower := strings.ToLower(clause)
	for _, rule := range fallbackRules {
		if strings.Contains(lower, rule.trigger) {
			return rule.sentence
		}
	}
	return genericFallback
}

// similarityRatio is a case-insensitive, character-level sequence
// similarity in [0,1] based on longest matching blocks.
func similarityRatio(a, b string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	)
	return m.Ratio()
}
