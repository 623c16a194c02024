package main

import (
	"testing"
)

func TestCategoryListAndEdit(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"category", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("category list: %v", err)
	}
	requireContains(t, out, "Video")
	requireContains(t, out, "Other (fallback)")

	// The stored key stays exactly as typed; only table output title-cases.
	out, _, err = runCLI(t, []string{"category", "add", "design"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("category add: %v", err)
	}
	requireContains(t, out, `Added category "design"`)

	out, _, err = runCLI(t, []string{"category", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("category list: %v", err)
	}
	requireContains(t, out, "Design")

	out, _, err = runCLI(t, []string{"category", "add-ext", "design", ".PSD"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("category add-ext: %v", err)
	}
	requireContains(t, out, `Mapped .psd to "design"`)

	// The same extension cannot live in two categories.
	if _, _, err := runCLI(t, []string{"category", "add-ext", "Music", "psd"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected duplicate extension mapping to be rejected")
	}

	out, _, err = runCLI(t, []string{"category", "remove-ext", "design", "psd"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("category remove-ext: %v", err)
	}
	requireContains(t, out, `Unmapped .psd from "design"`)

	// The fallback category is protected.
	if _, _, err := runCLI(t, []string{"category", "remove", "Other"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected fallback removal to be rejected")
	}

	out, _, err = runCLI(t, []string{"category", "reset", "--yes"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("category reset: %v", err)
	}
	requireContains(t, out, "reset to built-in defaults")
}
