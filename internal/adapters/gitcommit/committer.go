package gitcommit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

const (
	BotName       = "github-actions[bot]"
	BotEmail      = "github-actions[bot]@users.noreply.github.com"
	CommitMessage = "chore: update watcher state"
)

// ErrNothingToCommit: l'index ne diffère pas de HEAD après le git add.
var ErrNothingToCommit = errors.New("nothing to commit")

// ExecFunc lance une commande dans dir et renvoie sa sortie combinée.
type ExecFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Committer commite et pousse le fichier d'état via le binaire git.
type Committer struct {
	logger zerolog.Logger
	dir    string
	path   string
	exec   ExecFunc
}

func New(logger zerolog.Logger, dir, path string) *Committer {
	return &Committer{logger: logger, dir: dir, path: path, exec: runCommand}
}

// WithExec remplace l'exécution des commandes (tests).
func (c *Committer) WithExec(fn ExecFunc) *Committer {
	c.exec = fn
	return c
}

func (c *Committer) Persist(ctx context.Context) error {
	steps := [][]string{
		{"config", "user.name", BotName},
		{"config", "user.email", BotEmail},
		{"add", c.path},
	}
	for _, args := range steps {
		if err := c.git(ctx, args...); err != nil {
			return err
		}
	}

	_, err := c.exec(ctx, c.dir, "git", "diff", "--cached", "--quiet")
	if err == nil {
		return ErrNothingToCommit
	}
	var coded interface{ ExitCode() int }
	if !errors.As(err, &coded) || coded.ExitCode() != 1 {
		return fmt.Errorf("git diff: %w", err)
	}

	if err := c.git(ctx, "commit", "-m", CommitMessage); err != nil {
		return err
	}
	if err := c.git(ctx, "push"); err != nil {
		return err
	}
	c.logger.Info().Str("path", c.path).Msg("state committed and pushed")
	return nil
}

func (c *Committer) git(ctx context.Context, args ...string) error {
	out, err := c.exec(ctx, c.dir, "git", args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
		return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}
	return nil
}

func runCommand(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}

// Noop est utilisé quand le commit de l'état est désactivé.
type Noop struct{}

func (Noop) Persist(context.Context) error { return nil }
