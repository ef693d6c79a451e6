package unlock

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/rolledback/safediff/internal/format"
	"github.com/rolledback/safediff/internal/logging"
	"github.com/rolledback/safediff/internal/models"
)

var ErrTooManyAttempts = errors.New("too many failed unlock attempts")

// Unlocker opens databases according to their plans.
type Unlocker struct {
	open     format.Opener
	prompter Prompter
	limiter  *Limiter
	attempts int
	log      *zap.SugaredLogger
}

// New returns an Unlocker. Prompted plans get up to attempts tries; log may
// be nil.
func New(open format.Opener, prompter Prompter, limiter *Limiter, attempts int, log *zap.SugaredLogger) *Unlocker {
	if log == nil {
		log = logging.Nop()
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Unlocker{
		open:     open,
		prompter: prompter,
		limiter:  limiter,
		attempts: attempts,
		log:      log,
	}
}

// Open unlocks plan.Path. shared is the password for SourceShared plans.
// It returns the tree and the password that unlocked it. Prompted plans ask
// again only after a wrong or missing password; any other failure is
// returned at once.
func (u *Unlocker) Open(ctx context.Context, plan Plan, shared *string) (*models.Group, *string, error) {
	switch plan.Source {
	case SourcePrompt:
		return u.openPrompted(ctx, plan)
	case SourceShared:
		return u.openOnce(ctx, plan, shared)
	case SourceNone:
		return u.openOnce(ctx, plan, nil)
	default:
		return u.openOnce(ctx, plan, plan.Password)
	}
}

// OpenBoth unlocks a and then b, passing a's password to b when b shares it.
func (u *Unlocker) OpenBoth(ctx context.Context, a, b Plan) (*models.Group, *models.Group, error) {
	treeA, pw, err := u.Open(ctx, a, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error opening database A")
	}
	treeB, _, err := u.Open(ctx, b, pw)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error opening database B")
	}
	return treeA, treeB, nil
}

func (u *Unlocker) openOnce(ctx context.Context, plan Plan, password *string) (*models.Group, *string, error) {
	if err := u.limiter.Wait(ctx, plan.Path); err != nil {
		return nil, nil, err
	}
	u.log.Debugw("opening database", "path", plan.Path, "source", plan.Source.String(), "keyfile", plan.KeyFile != "")
	tree, err := u.open(plan.Path, plan.Credentials(password))
	if err != nil {
		return nil, nil, err
	}
	return tree, password, nil
}

func (u *Unlocker) openPrompted(ctx context.Context, plan Plan) (*models.Group, *string, error) {
	var lastErr error
	for attempt := 1; attempt <= u.attempts; attempt++ {
		if err := u.limiter.Wait(ctx, plan.Path); err != nil {
			return nil, nil, err
		}
		password, err := u.prompter.Prompt(plan.PromptLabel)
		if err != nil {
			return nil, nil, err
		}
		tree, err := u.open(plan.Path, plan.Credentials(password))
		if err == nil {
			u.log.Debugw("unlocked database", "path", plan.Path, "attempt", attempt)
			return tree, password, nil
		}
		if !retryable(err) {
			return nil, nil, err
		}
		u.log.Warnw("unlock failed", "path", plan.Path, "attempt", attempt, "of", u.attempts, "error", err)
		lastErr = err
	}
	return nil, nil, errors.WithHint(
		errors.Mark(errors.Wrapf(lastErr, "%s: giving up after %d attempts", plan.Path, u.attempts), ErrTooManyAttempts),
		"raise --unlock-attempts or pass the password with --password-a/--password-b",
	)
}

// retryable reports whether another password could fix err.
func retryable(err error) bool {
	return errors.Is(err, format.ErrWrongCredentials) || errors.Is(err, format.ErrNoCredentials)
}
