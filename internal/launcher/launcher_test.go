package launcher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"shopifymcp/pkg/credentials"
)

func TestParseArgs(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		port    int
		pass    []string
		wantErr string
	}{
		{name: "empty", args: nil},
		{name: "long", args: []string{"--port", "9000"}, port: 9000},
		{name: "short", args: []string{"-p", "8081", "--http-only"}, port: 8081, pass: []string{"--http-only"}},
		{name: "equals", args: []string{"--verbose", "--port=7000", "x"}, port: 7000, pass: []string{"--verbose", "x"}},
		{name: "unknown only", args: []string{"--foo", "bar"}, pass: []string{"--foo", "bar"}},
		{name: "missing value", args: []string{"--port"}, wantErr: "requires a value"},
		{name: "not a number", args: []string{"--port", "abc"}, wantErr: "invalid port number: abc"},
		{name: "out of range", args: []string{"-p=70000"}, wantErr: "invalid port number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := ParseArgs(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.port, opts.Port)
			assert.Equal(t, tc.pass, opts.Passthrough)
		})
	}
}

func TestServerArgs(t *testing.T) {
	assert.Equal(t, []string{"--port", "9000", "--http-only"}, Options{Port: 9000, Passthrough: []string{"--http-only"}}.ServerArgs())
	assert.Empty(t, Options{}.ServerArgs())
}

func TestChildEnvReplacesCredentialKeys(t *testing.T) {
	base := []string{"PATH=/bin", "SHOPIFY_ACCESS_TOKEN=stale", "SHOPIFY_API_KEY=old", "HOME=/root"}
	set := credentials.Set{ShopURL: "test.myshopify.com", AccessToken: "abc123"}
	env := childEnv(base, set)
	assert.Equal(t, []string{
		"PATH=/bin",
		"HOME=/root",
		"SHOPIFY_ACCESS_TOKEN=abc123",
		"SHOPIFY_API_VERSION=2023-01",
		"SHOPIFY_SHOP_URL=test.myshopify.com",
	}, env)
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), credentials.ProfileFileName)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	require.NoError(t, os.Chmod(p, 0o600))
	return p
}

// helperCommand re-executes the test binary as a fake server.
func helperCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
	return exec.CommandContext(ctx, os.Args[0], cs...)
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+2:]
			break
		}
	}
	fmt.Printf("args=%s\n", strings.Join(args, " "))
	for _, k := range credentials.Keys {
		fmt.Printf("%s=%s\n", k, os.Getenv(k))
	}
	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT"))
	os.Exit(code)
}

func newTestLauncher(profile string) (*Launcher, *bytes.Buffer) {
	out := &bytes.Buffer{}
	l := New(&credentials.Resolver{ProfilePath: profile, EnvFilePath: filepath.Join(filepath.Dir(profile), "missing.env")}, nil)
	l.ServerBin = "shopify-mcp"
	l.Stdin = strings.NewReader("")
	l.Stdout = out
	l.Stderr = &bytes.Buffer{}
	l.command = helperCommand
	return l, out
}

func TestRunPassesCredentialsAndArgs(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_EXIT", "0")
	t.Setenv(credentials.KeyAccessToken, "stale")

	l, out := newTestLauncher(writeProfile(t, "SHOPIFY_SHOP_URL=test.myshopify.com\nSHOPIFY_ACCESS_TOKEN=abc123\n"))
	code, err := l.Run(context.Background(), Options{Port: 9000, Passthrough: []string{"--http-only"}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	got := out.String()
	assert.Contains(t, got, "args=--port 9000 --http-only\n")
	assert.Contains(t, got, "SHOPIFY_SHOP_URL=test.myshopify.com\n")
	assert.Contains(t, got, "SHOPIFY_ACCESS_TOKEN=abc123\n")
	assert.Contains(t, got, "SHOPIFY_API_VERSION=2023-01\n")
	assert.Contains(t, got, "SHOPIFY_API_KEY=\n")
}

func TestRunPropagatesExitCode(t *testing.T) {
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_EXIT", "3")

	l, _ := newTestLauncher(writeProfile(t, "SHOPIFY_SHOP_URL=test.myshopify.com\nSHOPIFY_ACCESS_TOKEN=abc123\n"))
	code, err := l.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRunRefusesBeforeSpawning(t *testing.T) {
	cases := map[string]struct {
		content string
		perm    os.FileMode
		want    error
	}{
		"loose profile":  {content: "SHOPIFY_SHOP_URL=a\nSHOPIFY_ACCESS_TOKEN=b\n", perm: 0o644, want: credentials.ErrInsecurePermissions},
		"no shop":        {content: "SHOPIFY_ACCESS_TOKEN=b\n", perm: 0o600, want: credentials.ErrMissingShopURL},
		"no auth":        {content: "SHOPIFY_SHOP_URL=a\nSHOPIFY_API_KEY=k\n", perm: 0o600, want: credentials.ErrMissingAuth},
		"ambiguous auth": {content: "SHOPIFY_SHOP_URL=a\nSHOPIFY_ACCESS_TOKEN=t\nSHOPIFY_API_KEY=k\nSHOPIFY_PASSWORD=p\n", perm: 0o600, want: credentials.ErrAmbiguousAuth},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := writeProfile(t, tc.content)
			require.NoError(t, os.Chmod(p, tc.perm))
			l, _ := newTestLauncher(p)
			spawned := false
			l.command = func(ctx context.Context, name string, args ...string) *exec.Cmd {
				spawned = true
				return helperCommand(ctx, name, args...)
			}
			code, err := l.Run(context.Background(), Options{})
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, ExitCredentials, code)
			assert.False(t, spawned)
		})
	}
}

func TestRunNoSource(t *testing.T) {
	dir := t.TempDir()
	l, _ := newTestLauncher(filepath.Join(dir, credentials.ProfileFileName))
	code, err := l.Run(context.Background(), Options{})
	require.ErrorIs(t, err, credentials.ErrNoSource)
	assert.Equal(t, ExitCredentials, code)
}

func TestSetupWritesProfile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "profile")
	var out bytes.Buffer
	require.NoError(t, Setup([]string{"--shop", "my-store.myshopify.com", "--profile", p}, strings.NewReader("shpat_1\n"), &out))
	assert.Contains(t, out.String(), "mode 0600")
	assert.NotContains(t, out.String(), "shpat_1")

	st, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	set, err := (&credentials.Resolver{ProfilePath: p}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "my-store.myshopify.com", set.ShopURL)
	assert.Equal(t, "shpat_1", set.AccessToken)
	assert.Equal(t, credentials.AuthAccessToken, set.Mode())

	err = Setup([]string{"--shop", "x", "--profile", p}, strings.NewReader("y\n"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// password from stdin without a trailing newline
	require.NoError(t, Setup([]string{"--shop", "x", "--api-key", "k", "--profile", p, "--force"}, strings.NewReader("0042"), &out))
	set, err = (&credentials.Resolver{ProfilePath: p}).Resolve()
	require.NoError(t, err)
	assert.Equal(t, credentials.AuthBasic, set.Mode())
	assert.Equal(t, "k", set.APIKey)
	assert.Equal(t, "0042", set.Password)
	assert.Empty(t, set.AccessToken)
}

func TestSetupSecretsNeverComeFromFlags(t *testing.T) {
	p := filepath.Join(t.TempDir(), "profile")
	for _, flagName := range []string{"--token", "--password"} {
		err := Setup([]string{"--shop", "x", flagName, "secret", "--profile", p}, strings.NewReader("t\n"), &bytes.Buffer{})
		require.Error(t, err, flagName)
	}
	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadSecretTrimsLineEnding(t *testing.T) {
	s, err := readSecret(strings.NewReader("tok\r\nignored\n"), &bytes.Buffer{}, "Access token")
	require.NoError(t, err)
	assert.Equal(t, "tok", s)
}

func TestSetupRejectsIncompleteAuth(t *testing.T) {
	p := filepath.Join(t.TempDir(), "profile")
	err := Setup([]string{"--shop", "x", "--api-key", "k", "--profile", p}, strings.NewReader(""), &bytes.Buffer{})
	require.ErrorIs(t, err, credentials.ErrMissingAuth)
	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteCatalog(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf))

	var doc struct {
		Tools []struct {
			Name   string `yaml:"name"`
			Params []struct {
				Name     string `yaml:"name"`
				Required bool   `yaml:"required"`
			} `yaml:"params"`
		} `yaml:"tools"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Tools, 7)
	assert.Equal(t, "get_products", doc.Tools[0].Name)
	assert.Equal(t, "search_products", doc.Tools[5].Name)
	require.Len(t, doc.Tools[5].Params, 2)
	assert.Equal(t, "query", doc.Tools[5].Params[0].Name)
	assert.True(t, doc.Tools[5].Params[0].Required)
}
