// Package gitutil provides a client for applying review diffs to a Git work tree.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-git/v5"
)

// PatchFile is the name of the downloaded diff inside the workspace.
const PatchFile = "patch.diff"

// ErrNotWorkTree is returned when the workspace is not inside a Git work tree.
var ErrNotWorkTree = errors.New("workspace is not a git work tree")

// Client handles interacting with Git work trees.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// Open opens the Git repository containing path.
func (c *Client) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotWorkTree, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	if _, err := repo.Worktree(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotWorkTree, path, err)
	}
	return repo, nil
}

// HeadSHA returns the commit checked out in the work tree containing path.
func (c *Client) HeadSHA(path string) (string, error) {
	repo, err := c.Open(path)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// WritePatch stores the diff as PatchFile in workspace, replacing any
// previous download, and returns its path.
func (c *Client) WritePatch(workspace string, diff io.Reader) (string, error) {
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace %s: %w", workspace, err)
	}
	path := filepath.Join(workspace, PatchFile)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, diff); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	c.Logger.Debug("patch written", "path", path)
	return path, nil
}

// Apply checks and applies the patch to the work tree at workspace. The strip
// level is the number of leading path components removed from file names.
func (c *Client) Apply(ctx context.Context, workspace, patchPath string, strip int) error {
	if _, err := c.Open(workspace); err != nil {
		return err
	}
	absPatch, err := filepath.Abs(patchPath)
	if err != nil {
		return fmt.Errorf("failed to resolve patch path: %w", err)
	}

	p := "-p" + strconv.Itoa(strip)
	if err := c.git(ctx, workspace, "apply", "--check", p, absPatch); err != nil {
		return fmt.Errorf("patch does not apply: %w", err)
	}
	if err := c.git(ctx, workspace, "apply", p, absPatch); err != nil {
		return err
	}
	c.Logger.InfoContext(ctx, "patch applied", "workspace", workspace, "patch", absPatch)
	return nil
}

func (c *Client) git(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-c", "core.longpaths=true"}, args...)...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s failed: %s: %w", args[0], string(out), err)
	}
	return nil
}
