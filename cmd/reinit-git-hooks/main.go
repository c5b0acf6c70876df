// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"go.astrophena.name/devscripts/cli"
	"go.astrophena.name/devscripts/logger"
)

func main() { cli.Main(&app{gitInit: gitInit}) }

type app struct {
	// gitInit runs 'git init' in dir.
	gitInit func(ctx context.Context, dir string) error
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) != 1 {
		return fmt.Errorf("%w: want a root directory", cli.ErrInvalidArgs)
	}
	root := env.Args[0]

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to read root dir: %w", err)
			}
			logger.Debug(ctx, "Skipping unreadable path", slog.String("path", path), slog.Any("cause", err))
			return nil
		}
		if !d.IsDir() || d.Name() != ".git" {
			return nil
		}
		if err := a.reinit(ctx, path); err != nil {
			return err
		}
		return fs.SkipDir
	})
}

// reinit removes the hooks from gitDir and reinitializes its repository.
func (a *app) reinit(ctx context.Context, gitDir string) error {
	hooksDir := filepath.Join(gitDir, "hooks")
	err := filepath.WalkDir(hooksDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) == ".sample" {
			return nil
		}
		logger.Info(ctx, "Removing hook", slog.String("path", path))
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	repo := filepath.Dir(gitDir)
	logger.Info(ctx, "Reinitializing Git repository", slog.String("path", repo))
	return a.gitInit(ctx, repo)
}

func gitInit(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "init")
	cmd.Dir = dir
	cmd.Stdout = io.Discard
	cmd.Stderr = cli.GetEnv(ctx).Stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return fmt.Errorf("failed to reinitialize Git repository in %q: %w", dir, err)
	default:
		return fmt.Errorf("failed to run 'git init' in %q: %w", dir, err)
	}
}
