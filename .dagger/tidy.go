package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/termchat/internal/dagger"
)

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (t *Termchat) CheckGoModTidy(ctx context.Context) (string, error) {
	return t.checkClean(ctx, "go.mod and go.sum are not tidy: run 'go mod tidy'",
		"cp go.mod go.mod.HEAD && cp go.sum go.sum.HEAD && go mod tidy && "+
			"diff -u go.mod.HEAD go.mod && diff -u go.sum.HEAD go.sum",
	)
}

// CheckVet runs "go vet" over every package.
//
// +check
func (t *Termchat) CheckVet(ctx context.Context) (string, error) {
	return t.checkClean(ctx, "go vet reported problems", "go vet ./...")
}

func (t *Termchat) checkClean(ctx context.Context, failure, script string) (string, error) {
	out, err := t.goContainer().
		WithExec([]string{"sh", "-c", script}).
		Stdout(ctx)

	var e *dagger.ExecError
	switch {
	case errors.As(err, &e):
		return "", fmt.Errorf("%s\n\n%s%s", failure, e.Stdout, e.Stderr)
	case err != nil:
		return "", fmt.Errorf("unexpected error: %w", err)
	}

	return out, nil
}
