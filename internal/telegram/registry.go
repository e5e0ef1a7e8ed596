package telegram

import (
	"context"
	"strings"

	"github.com/kamran134/fortuna-telegram-bot/internal/repository"
)

// Context carries everything a command needs about the inbound message.
// Text is normalized: lower-cased, bot mention stripped. Raw keeps the
// original casing for argument parsing.
type Context struct {
	ChatID    int64
	ThreadID  int
	MessageID int
	AccountID int64
	Text      string
	Raw       string
	FirstName string
	LastName  string
	UserName  string
	IsAdmin   bool
	IsCreator bool
	IsPrivate bool
}

type commandFunc func(ctx context.Context, c *Context) error

type command struct {
	name        string
	adminOnly   bool
	creatorOnly bool
	run         commandFunc
}

type matcherEntry struct {
	match func(text string) bool
	cmd   *command
}

// Registry resolves a normalized message to at most one command: the
// exact-match table first, then the predicate matchers in registration order.
type Registry struct {
	exact    map[string]*command
	matchers []matcherEntry
	logger   repository.Logger
}

func NewRegistry(logger repository.Logger) *Registry {
	return &Registry{
		exact:  make(map[string]*command),
		logger: logger,
	}
}

// RegisterExact keys are compared case-insensitively; the last registration
// for a key wins.
func (r *Registry) RegisterExact(key string, cmd *command) {
	r.exact[strings.ToLower(key)] = cmd
}

func (r *Registry) RegisterPrefix(prefix string, cmd *command) {
	prefix = strings.ToLower(prefix)
	r.matchers = append(r.matchers, matcherEntry{
		match: func(text string) bool { return strings.HasPrefix(text, prefix) },
		cmd:   cmd,
	})
}

func (r *Registry) RegisterContains(substring string, cmd *command) {
	substring = strings.ToLower(substring)
	r.matchers = append(r.matchers, matcherEntry{
		match: func(text string) bool { return strings.Contains(text, substring) },
		cmd:   cmd,
	})
}

// Execute runs the matched command, if any. Permission failures at this
// layer are silent: the skip is logged and no message is sent, unlike the
// in-command checks which answer with a denial. Command errors are logged
// with command and chat context and returned to the caller.
func (r *Registry) Execute(ctx context.Context, c *Context) (bool, error) {
	cmd, ok := r.exact[c.Text]
	if !ok {
		for _, m := range r.matchers {
			if m.match(c.Text) {
				cmd = m.cmd
				ok = true
				break
			}
		}
	}
	if !ok {
		return false, nil
	}
	if (cmd.adminOnly && !c.IsAdmin) || (cmd.creatorOnly && !c.IsCreator) {
		r.logger.Info("skip_command", cmd.name, c.ChatID, c.AccountID, "forbidden")
		return true, nil
	}
	if err := cmd.run(ctx, c); err != nil {
		r.logger.Error(err, "command", cmd.name, c.ChatID, c.AccountID)
		return true, err
	}
	return true, nil
}
