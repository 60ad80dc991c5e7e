package browse

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amishk599/jobquery/internal/model"
)

// Searcher runs one search and always returns an envelope.
type Searcher interface {
	Run(ctx context.Context, q string) model.Envelope
}

// Run loops prompt → search → results until the user quits. An error
// envelope sends the user back to the prompt with its message shown.
func Run(ctx context.Context, searcher Searcher, initial string, logger *slog.Logger) error {
	q, notice := initial, ""
	for {
		if q == "" || notice != "" {
			var quit bool
			var err error
			q, quit, err = RunPrompt(q, notice)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		env, err := RunLoader(ctx, q, func(ctx context.Context) model.Envelope {
			return searcher.Run(ctx, q)
		})
		if errors.Is(err, errCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		if env.Status != model.StatusSuccess {
			logger.Debug("search returned error envelope", "failure", env.Failure.String())
			notice = env.Message
			continue
		}

		action, err := RunResults(q, env)
		if err != nil {
			return err
		}
		if action == ActionQuit {
			return nil
		}
		notice = ""
		q = ""
	}
}
