// termchat CI
//
// Package main runs the termchat test suite and cross-compiles release
// binaries in containers, locally or from GitHub actions.
package main

import (
	"context"

	"dagger/termchat/internal/dagger"
)

// Termchat is the CI module for termchat.
type Termchat struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Termchat CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Termchat {
	return &Termchat{
		Source: source,
	}
}

// goContainer returns a Go container with module and build caches mounted
// and the project source in /src. termchat is pure Go, so CGO stays off.
func (t *Termchat) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", t.Source)
}

// Test runs the ginkgo suites via "go test". NO_COLOR keeps rendered
// output free of escape sequences.
//
// +check
func (t *Termchat) Test(ctx context.Context) (string, error) {
	return t.goContainer().
		WithEnvVariable("NO_COLOR", "1").
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}
