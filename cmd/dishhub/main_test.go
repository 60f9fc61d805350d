package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/dishhub/internal/config"
	"github.com/hyperjump/dishhub/internal/server"
	"github.com/hyperjump/dishhub/internal/storage"
	"go.uber.org/zap"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"pasta"}, "pasta"},
		{"multiple words", []string{"spicy", "soup"}, "spicy soup"},
		{"quoted phrase", []string{"spicy soup"}, "spicy soup"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", " "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.args); got != tt.expected {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestFilterFlags_State(t *testing.T) {
	f := filterFlags{category: "Dinner", max: 30, sort: "Quickest"}
	got, err := f.state()
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "Dinner" || got.MaxDurationMinutes != 30 || got.Sort != "quickest" {
		t.Errorf("state() = %+v", got)
	}

	f.sort = "rating"
	if _, err := f.state(); err == nil {
		t.Error("expected error for unknown sort key")
	}
}

func TestReadRecipeInput(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "pancakes.yaml")
	writeFile(t, yamlPath, `title: Pancakes
description: Fluffy
category: Breakfast
prepTime: 20 minutes
ingredients: [Flour, Milk]
steps:
  - Whisk
  - Fry
`)
	in, err := readRecipeInput(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if in.Title != "Pancakes" || len(in.Ingredients) != 2 || len(in.Steps) != 2 {
		t.Errorf("yaml input = %+v", in)
	}

	jsonPath := filepath.Join(dir, "pancakes.json")
	writeFile(t, jsonPath, `{"title":"Pancakes","prepTime":"20","steps":["Whisk"]}`)
	in, err = readRecipeInput(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if in.PrepTime != "20" || len(in.Steps) != 1 || in.Steps[0] != "Whisk" {
		t.Errorf("json input = %+v", in)
	}

	if _, err := readRecipeInput(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.yaml")
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Browse.PageSize != 3 {
		t.Errorf("page size = %d, want default 3", cfg.Browse.PageSize)
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute(context.Background(), []string{"version"}, strings.NewReader(""), &out, &out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "dishhub version dev\n" {
		t.Errorf("version output = %q", got)
	}
}

// cliEnv runs commands against a service backed by a temporary database.
type cliEnv struct {
	t          *testing.T
	dir        string
	configPath string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	serverCfg := config.Default()
	srv := server.NewServer(store, serverCfg, "", nil, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(dir, "unused.db")
	cfg.Client.BaseURL = ts.URL
	cfg.Client.SessionFile = filepath.Join(dir, "session.json")
	configPath := filepath.Join(dir, "config.yaml")
	if err := config.Save(configPath, cfg); err != nil {
		t.Fatal(err)
	}
	return &cliEnv{t: t, dir: dir, configPath: configPath}
}

func (e *cliEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.try(args...)
	if err != nil {
		e.t.Fatalf("dishhub %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (e *cliEnv) try(args ...string) (string, error) {
	var out bytes.Buffer
	args = append(args, "--config", e.configPath)
	err := execute(context.Background(), args, strings.NewReader(""), &out, &out)
	return out.String(), err
}

func TestCommands_EndToEnd(t *testing.T) {
	env := newCLIEnv(t)

	if _, err := env.try("recipe", "mine"); err == nil {
		t.Fatal("expected recipe mine to fail before login")
	}
	if got := env.run("whoami"); got != "Not logged in\n" {
		t.Errorf("whoami = %q", got)
	}

	env.run("register", "-u", "ann", "-p", "secret")
	if got := env.run("login", "-u", "ann", "-p", "secret"); got != "Logged in as ann\n" {
		t.Errorf("login = %q", got)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "session.json")); err != nil {
		t.Fatalf("session not saved: %v", err)
	}
	if got := env.run("whoami"); !strings.HasPrefix(got, "ann (") {
		t.Errorf("whoami = %q", got)
	}

	env.run("ingredient", "add", "Flour", "200g")
	env.run("ingredient", "add", "Milk", "1 cup")
	env.run("category", "add", "Breakfast")
	if _, err := env.try("category", "add", "breakfast"); err == nil {
		t.Error("expected duplicate category to fail")
	}
	if got := env.run("category", "list"); got != "Breakfast\n" {
		t.Errorf("category list = %q", got)
	}

	recipePath := filepath.Join(env.dir, "pancakes.yaml")
	writeFile(t, recipePath, `title: Pancakes
description: Fluffy
category: Breakfast
prepTime: 20 minutes
mood: Cozy
ingredients: [flour, milk]
steps: [Whisk, Fry]
`)
	created := env.run("recipe", "create", recipePath, "-o", "compact")
	fields := strings.Split(strings.TrimSpace(created), "\t")
	if len(fields) != 4 || fields[1] != "Pancakes" || fields[3] != "20 min" {
		t.Fatalf("create output = %q", created)
	}
	id := fields[0]

	got := env.run("search", "flour", "-o", "compact")
	if !strings.Contains(got, id+"\tPancakes\tBreakfast") {
		t.Errorf("search flour = %q", got)
	}
	if got := env.run("search", "sushi"); got != "No recipes found.\n" {
		t.Errorf("search sushi = %q", got)
	}
	if got := env.run("search", "--max", "10"); got != "No recipes found.\n" {
		t.Errorf("search --max 10 = %q", got)
	}
	if got := env.run("suggest", "co", "-o", "compact"); got != "Cozy\n" {
		t.Errorf("suggest co = %q", got)
	}
	if got := env.run("recipe", "get", id); !strings.Contains(got, "  - Flour") {
		t.Errorf("recipe get = %q", got)
	}
	if got := env.run("recipe", "mine"); !strings.Contains(got, "Pancakes") {
		t.Errorf("recipe mine = %q", got)
	}

	env.run("recipe", "delete", id)
	if got := env.run("search", "flour"); got != "No recipes found.\n" {
		t.Errorf("search after delete = %q", got)
	}

	env.run("logout")
	if _, err := os.Stat(filepath.Join(env.dir, "session.json")); !os.IsNotExist(err) {
		t.Errorf("session file should be removed, stat err = %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCredentials_PasswordSources(t *testing.T) {
	cmd := newLoginCmd(&app{})
	cmd.SetIn(strings.NewReader(""))

	f := credentialFlags{username: "ann", password: "flag"}
	creds, err := f.credentials(cmd)
	if err != nil || creds.Password != "flag" {
		t.Errorf("flag password: %+v, %v", creds, err)
	}

	t.Setenv(passwordEnv, "env")
	f.password = ""
	creds, err = f.credentials(cmd)
	if err != nil || creds.Password != "env" {
		t.Errorf("env password: %+v, %v", creds, err)
	}

	t.Setenv(passwordEnv, "")
	if _, err := f.credentials(cmd); err == nil {
		t.Error("expected error without a password on a non-terminal stdin")
	}
}
