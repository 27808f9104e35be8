package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egoavara/plughub/internal/catalog"
	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/credentials"
	"github.com/egoavara/plughub/internal/discovery"
	"github.com/egoavara/plughub/internal/i18n"
	"github.com/egoavara/plughub/internal/invoker"
	"github.com/egoavara/plughub/internal/plugintype"
	"github.com/egoavara/plughub/internal/project"
	"github.com/egoavara/plughub/internal/tui"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "plughub-cmd-test")
	if err != nil {
		panic(err)
	}
	os.Setenv(config.EnvConfigDir, dir)
	os.Unsetenv(config.EnvHubURL)
	i18n.SetLocale("en-US")

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// execute runs the root command with args and captured output
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	logLevel, projectRoot, hubURL = "", "", ""
	discoverParallel, discoverInteractive = 0, false
	authToken = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// stub replaces *target with value for the duration of the test
func stub[T any](t *testing.T, target *T, value T) {
	t.Helper()
	orig := *target
	*target = value
	t.Cleanup(func() { *target = orig })
}

func fakeFetcher(failing ...plugintype.Type) func() (discovery.Fetcher, error) {
	return func() (discovery.Fetcher, error) {
		return discovery.FetcherFunc(func(ctx context.Context, t plugintype.Type) (*catalog.Index, error) {
			for _, f := range failing {
				if f == t {
					return nil, fmt.Errorf("hub down for %s", t.Plural())
				}
			}
			idx := catalog.NewIndex(t)
			switch t {
			case plugintype.Extractor:
				idx.Set(catalog.Descriptor{Name: "tap-demo", DefaultVariant: "default", Variants: []catalog.Variant{{Name: "default"}}})
				idx.Set(catalog.Descriptor{Name: "tap-github", DefaultVariant: "meltanolabs", Variants: []catalog.Variant{{Name: "meltanolabs"}, {Name: "singer-io"}}})
			case plugintype.Loader:
				idx.Set(catalog.Descriptor{Name: "target-postgres", DefaultVariant: "transferwise", Variants: []catalog.Variant{{Name: "transferwise"}}})
			}
			return idx, nil
		}), nil
	}
}

func TestDiscover_SingleType(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher())

	stdout, stderr, err := execute(t, "discover", "extractor")
	require.NoError(t, err)
	assert.Equal(t, "Extractor\ntap-demo\ntap-github, variants: meltanolabs, singer-io\n", stdout)
	assert.Empty(t, stderr)
}

func TestDiscover_PluralToken(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher())

	stdout, _, err := execute(t, "discover", "loaders")
	require.NoError(t, err)
	assert.Equal(t, "Loader\ntarget-postgres\n", stdout)
}

func TestDiscover_FailureIsWarningOnly(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher(plugintype.Loader))

	for _, parallel := range []string{"1", "4"} {
		t.Run("parallel="+parallel, func(t *testing.T) {
			stdout, stderr, err := execute(t, "discover", "--parallel", parallel)
			require.NoError(t, err)

			assert.Contains(t, stdout, "Extractor\ntap-demo\n")
			assert.NotContains(t, stdout, "Loader")
			assert.NotContains(t, stdout, "Mapping")
			assert.Contains(t, stderr, "Can not retrieve loaders from the Hub")
		})
	}
}

func TestDiscover_InvalidType(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher())

	stdout, _, err := execute(t, "discover", "widgets")
	require.Error(t, err)
	assert.ErrorIs(t, err, plugintype.ErrInvalidArgument)
	assert.Empty(t, stdout)
}

func TestDiscover_Interactive(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher(plugintype.Loader))

	var browsed []tui.Item
	stub(t, &browse, func(items []tui.Item) (tui.Result, error) {
		browsed = items
		return tui.Result{Descriptor: items[1].Descriptor, Variant: "singer-io"}, nil
	})

	stdout, stderr, err := execute(t, "discover", "-i")
	require.NoError(t, err)
	require.Len(t, browsed, 2)
	assert.Equal(t, "Selected extractor/tap-github (variant: singer-io)\n", stdout)
	assert.Contains(t, stderr, "Can not retrieve loaders from the Hub")
}

func TestDiscover_InteractiveCancelled(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher())
	stub(t, &browse, func(items []tui.Item) (tui.Result, error) {
		return tui.Result{Cancelled: true}, nil
	})

	stdout, stderr, err := execute(t, "discover", "extractor", "--interactive")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Selection cancelled")
}

func TestSearch(t *testing.T) {
	stub(t, &newFetcher, fakeFetcher(plugintype.Utility))

	stdout, stderr, err := execute(t, "search", "postgres")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 1 plugin:")
	assert.Contains(t, stdout, "loader/target-postgres")
	assert.Contains(t, stderr, "Can not retrieve utilities from the Hub")

	stdout, _, err = execute(t, "search", "github")
	require.NoError(t, err)
	assert.Contains(t, stdout, "variants: meltanolabs, singer-io")

	stdout, _, err = execute(t, "search", "zzzz")
	require.NoError(t, err)
	assert.Equal(t, "No results found for 'zzzz'\n", stdout)
}

const testProject = `
version: 1
plugins:
  extractors:
    - name: tap-demo
      variant: default
    - name: shared
  loaders:
    - name: shared
      command: target-shared --quiet
`

func memProject(t *testing.T) func() (*project.Project, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/"+project.FileName, []byte(testProject), 0o644))
	return func() (*project.Project, error) {
		return project.Load(fs, "/proj")
	}
}

type fakeRunner struct {
	outcome invoker.Outcome
	err     error

	called bool
	plugin project.InstalledPlugin
	args   []string
}

func (r *fakeRunner) Invoke(ctx context.Context, plugin project.InstalledPlugin, args []string) (invoker.Outcome, error) {
	r.called = true
	r.plugin = plugin
	r.args = args
	return r.outcome, r.err
}

func stubRunner(t *testing.T, r *fakeRunner) {
	stub(t, &newRunner, func(*project.Project) pluginRunner { return r })
}

func TestInvoke_ForwardsArgs(t *testing.T) {
	stub(t, &openProject, memProject(t))

	tests := []struct {
		name     string
		args     []string
		wantArgs []string
	}{
		{"plain", []string{"tap-demo", "--discover"}, []string{"--discover"}},
		{"separator dropped", []string{"tap-demo", "--", "--discover", "-c", "x"}, []string{"--discover", "-c", "x"}},
		{"later separator kept", []string{"tap-demo", "a", "--", "b"}, []string{"a", "--", "b"}},
		{"help goes to plugin", []string{"tap-demo", "--help"}, []string{"--help"}},
		{"global flag before name", []string{"--log-level", "debug", "tap-demo", "--log-level", "x"}, []string{"--log-level", "x"}},
		{"no args", []string{"tap-demo"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{}
			stubRunner(t, r)

			_, _, err := execute(t, append([]string{"invoke"}, tt.args...)...)
			require.NoError(t, err)
			require.True(t, r.called)
			assert.Equal(t, "extractor/tap-demo", r.plugin.ID())
			assert.Equal(t, tt.wantArgs, r.args)
		})
	}
}

func TestInvoke_HelpBeforeNameRunsNothing(t *testing.T) {
	stub(t, &openProject, memProject(t))

	for _, args := range [][]string{{"-h", "tap-demo"}, {"--help", "tap-demo", "--discover"}, {"-h"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			r := &fakeRunner{}
			stubRunner(t, r)

			stdout, _, err := execute(t, append([]string{"invoke"}, args...)...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "plughub invoke <plugin_name>")
			assert.False(t, r.called)
		})
	}
}

func TestInvoke_MirrorsExitCode(t *testing.T) {
	stub(t, &openProject, memProject(t))
	stubRunner(t, &fakeRunner{outcome: invoker.Outcome{ExitCode: 3}})

	_, _, err := execute(t, "invoke", "tap-demo")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, exitCode(err))
}

func TestInvoke_Qualified(t *testing.T) {
	stub(t, &openProject, memProject(t))
	r := &fakeRunner{}
	stubRunner(t, r)

	_, _, err := execute(t, "invoke", "loader/shared")
	require.NoError(t, err)
	assert.Equal(t, "loader/shared", r.plugin.ID())
	assert.Equal(t, "target-shared --quiet", r.plugin.Command)
}

func TestInvoke_ResolutionFailures(t *testing.T) {
	stub(t, &openProject, memProject(t))

	tests := []struct {
		name       string
		plugin     string
		wantStderr string
	}{
		{"not found", "tap-missing", "Plugin 'tap-missing' is not configured in this project"},
		{"ambiguous", "shared", "matches several plugin types (extractor, loader)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{}
			stubRunner(t, r)

			_, stderr, err := execute(t, "invoke", tt.plugin, "--flag")
			assert.Equal(t, 1, exitCode(err))
			assert.Contains(t, stderr, tt.wantStderr)
			assert.False(t, r.called, "no process may be started")
		})
	}
}

func TestInvoke_LaunchFailure(t *testing.T) {
	stub(t, &openProject, memProject(t))
	stubRunner(t, &fakeRunner{
		outcome: invoker.Outcome{ExitCode: -1},
		err:     &invoker.ExecutionError{Plugin: "extractor/tap-demo", Err: errors.New("executable file not found in $PATH")},
	})

	_, stderr, err := execute(t, "invoke", "tap-demo")
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, stderr, "Could not start plugin 'tap-demo'")
}

func TestInvoke_NoProject(t *testing.T) {
	stub(t, &openProject, func() (*project.Project, error) {
		return project.Find(afero.NewMemMapFs(), "/")
	})
	r := &fakeRunner{}
	stubRunner(t, r)

	_, stderr, err := execute(t, "invoke", "tap-demo")
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, stderr, "No plughub.yml found")
	assert.False(t, r.called)
}

func TestInvoke_Help(t *testing.T) {
	stdout, _, err := execute(t, "invoke", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "plughub invoke <plugin_name>")
}

func TestInvoke_MissingName(t *testing.T) {
	_, _, err := execute(t, "invoke")
	assert.ErrorContains(t, err, "requires a plugin name")
}

func TestList(t *testing.T) {
	stub(t, &openProject, memProject(t))

	stdout, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Installed plugins (/proj)")
	assert.Contains(t, stdout, "tap-demo")
	assert.Contains(t, stdout, "target-shared --quiet")
	assert.Contains(t, stdout, "NAME")
}

func TestAuth(t *testing.T) {
	t.Setenv(credentials.EnvHubToken, "")
	store := credentials.NewStore(keyring.NewArrayKeyring(nil))
	stub(t, &openCredentials, func() (*credentials.Store, error) { return store, nil })
	stub(t, &openTokenStore, func() *credentials.Store { return store })

	stdout, _, err := execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Equal(t, "No hub token configured\n", stdout)

	_, _, err = execute(t, "auth", "login", "--token", "s3cret")
	require.NoError(t, err)

	stdout, _, err = execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Equal(t, "Hub token configured (source: keyring)\n", stdout)

	_, _, err = execute(t, "auth", "logout")
	require.NoError(t, err)

	_, _, err = store.Token()
	assert.ErrorIs(t, err, credentials.ErrNoToken)
}

func TestAuthStatus_EnvWithoutKeyring(t *testing.T) {
	t.Setenv(credentials.EnvHubToken, "from-env")
	opened := 0
	stub(t, &openTokenStore, func() *credentials.Store {
		return credentials.NewLazyStore(func() (keyring.Keyring, error) {
			opened++
			return nil, errors.New("no keyring backend")
		})
	})

	stdout, _, err := execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Equal(t, "Hub token configured (source: env)\n", stdout)
	assert.Zero(t, opened)
}

func TestAuthStatus_BrokenKeyringReadsAsNoToken(t *testing.T) {
	t.Setenv(credentials.EnvHubToken, "")
	stub(t, &openTokenStore, func() *credentials.Store {
		return credentials.NewLazyStore(func() (keyring.Keyring, error) {
			return nil, errors.New("no keyring backend")
		})
	})

	stdout, _, err := execute(t, "auth", "status")
	require.NoError(t, err)
	assert.Equal(t, "No hub token configured\n", stdout)
}

func TestDiscover_EnvTokenSkipsKeyring(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tap-demo": {"default_variant": "default", "variants": {"default": {}}}}`)
	}))
	t.Cleanup(srv.Close)

	t.Setenv(credentials.EnvHubToken, "from-env")
	opened := 0
	stub(t, &openTokenStore, func() *credentials.Store {
		return credentials.NewLazyStore(func() (keyring.Keyring, error) {
			opened++
			return keyring.NewArrayKeyring(nil), nil
		})
	})

	stdout, _, err := execute(t, "discover", "extractor", "--hub-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Extractor\ntap-demo\n", stdout)
	assert.Equal(t, "Bearer from-env", gotAuth)
	assert.Zero(t, opened)
}

func TestConfigSetAndShow(t *testing.T) {
	stdout, _, err := execute(t, "config", "set", "hub.retries", "5")
	require.NoError(t, err)
	assert.Equal(t, "Configuration updated: hub.retries = 5\n", stdout)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Hub.Retries)

	_, _, err = execute(t, "config", "set", "hub.retries", "many")
	assert.Error(t, err)

	_, _, err = execute(t, "config", "set", "nope", "1")
	assert.ErrorContains(t, err, "unknown config key")

	stdout, _, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hub.url: ")
	assert.Contains(t, stdout, "discover.parallel: ")
}

func TestConfigSet_DoesNotPersistEnvHubURL(t *testing.T) {
	_, _, err := execute(t, "config", "set", "hub.url", "https://saved.example.com/api/v1")
	require.NoError(t, err)

	t.Setenv(config.EnvHubURL, "http://localhost:9999/api")
	_, _, err = execute(t, "config", "set", "hub.retries", "3")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com/api/v1", cfg.Hub.URL)
	assert.Equal(t, 3, cfg.Hub.Retries)
}

func TestConfigSet_RejectsUnknownLogLevel(t *testing.T) {
	_, _, err := execute(t, "config", "set", "logLevel", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestLogLevelFlagValidated(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "plughub dev")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 42, exitCode(fmt.Errorf("wrapped: %w", &ExitError{Code: 42})))
}
