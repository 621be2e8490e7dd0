// Where: cli/cmd/fnsdk/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: Ensure buildDependencies is deterministic.
package main

import (
	"errors"
	"net/http"
	"testing"
)

func TestBuildDependenciesSuccess(t *testing.T) {
	origGetwd := getwd
	origNewClient := newHTTPClient
	t.Cleanup(func() {
		getwd = origGetwd
		newHTTPClient = origNewClient
	})

	client := &http.Client{}
	getwd = func() (string, error) {
		return "/project", nil
	}
	newHTTPClient = func() *http.Client {
		return client
	}

	deps, closer, err := buildDependencies()
	if err != nil {
		t.Fatalf("build dependencies: %v", err)
	}
	if deps.Out == nil || deps.ErrOut == nil {
		t.Fatalf("expected output writers to be set")
	}
	if deps.HTTPClient != client {
		t.Fatalf("expected injected http client")
	}
	if deps.NewLoader == nil || deps.NewTokens == nil || deps.NewArchive == nil {
		t.Fatalf("expected factories to be set: %+v", deps)
	}
	if deps.NewLoader(nil) == nil {
		t.Fatalf("expected loader instance")
	}
	if dir, err := deps.Getwd(); err != nil || dir != "/project" {
		t.Fatalf("getwd = %q %v", dir, err)
	}
	if closer == nil {
		t.Fatalf("expected closer")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBuildDependenciesGetwdError(t *testing.T) {
	origGetwd := getwd
	t.Cleanup(func() {
		getwd = origGetwd
	})

	getwd = func() (string, error) {
		return "", errors.New("boom")
	}

	if _, _, err := buildDependencies(); err == nil {
		t.Fatalf("expected error")
	}
}
