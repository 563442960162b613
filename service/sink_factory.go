package service

import (
	"fmt"
	"io"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/config"
	"github.com/ludo-technologies/xcprof/internal/constants"
	"go.uber.org/zap"
)

// NewCommentSink builds the sink selected by cfg.Sink.Type. Console output
// goes to w unless a structured output format owns it, in which case the
// comments are only recorded. Workflow commands move to errW under a
// structured format; the Actions runner reads them from either stream.
func NewCommentSink(cfg *config.Config, w, errW io.Writer, logger *zap.SugaredLogger) (domain.CommentSink, error) {
	structured := cfg.Output.Format == constants.OutputFormatJSON || cfg.Output.Format == constants.OutputFormatYAML

	switch cfg.Sink.Type {
	case constants.SinkConsole, "":
		if structured {
			return NewRecordingSink(), nil
		}
		return NewConsoleSink(w), nil
	case constants.SinkActions:
		if structured {
			return NewActionsSink(errW), nil
		}
		return NewActionsSink(w), nil
	case constants.SinkGitHub:
		gh := cfg.Sink.GitHub
		if gh.Token == "" {
			return nil, domain.NewConfigError("github sink requires a token (set GITHUB_TOKEN)", nil)
		}
		client, err := NewGitHubClient(&gh, nil)
		if err != nil {
			return nil, err
		}
		return NewGitHubSink(client, &gh, logger)
	default:
		return nil, domain.NewConfigError(fmt.Sprintf("unknown sink type %q", cfg.Sink.Type), nil)
	}
}
