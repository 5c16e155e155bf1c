package cmd

import (
	"bytes"
	"copkg/config"
	"copkg/logging"
	"copkg/settings"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of the command tree to its default so
// values and Changed state do not carry over between runs
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stdout) })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPackageLifecycle(t *testing.T) {
	t.Setenv(settings.SettingsPathEnv, "")
	t.Setenv(settings.ConfigPathEnv, "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "copkg.json")
	pkgDir := filepath.Join(dir, "packages")

	_, err := run(t, "config", "init", pkgDir, "https://repo.example.com/packages", "--username", "deploy", "-c", cfgPath)
	require.NoError(t, err)

	cfg, err := config.FromFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, pkgDir, cfg.PackageDir())
	assert.Equal(t, "deploy", cfg.Username().OrElse(""))
	assert.False(t, cfg.Password().IsSet())

	_, err = run(t, "config", "init", pkgDir, "https://repo.example.com/packages", "-c", cfgPath)
	assert.ErrorContains(t, err, "already exists")

	out, err := run(t, "path", "com.acme:widget:1.2.0", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(pkgDir, "com", "acme", "widget", "1.2.0"))
	assert.Contains(t, out, "https://repo.example.com/packages/com/acme/widget/1.2.0/widget-1.2.0.tar.gz")

	out, err = run(t, "stage", "com.acme:widget:1.2.0", "-c", cfgPath)
	require.NoError(t, err)
	target := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(pkgDir, ".download", "com", "acme", "widget", "1.2.0", "widget-1.2.0.tar.gz"), target)
	require.NoError(t, os.WriteFile(target, []byte("artifact"), 0644))

	_, err = run(t, "promote", "com.acme:widget:1.2.0", "-c", cfgPath)
	require.NoError(t, err)

	out, err = run(t, "list", "com.acme:widget", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.0")

	_, err = run(t, "clean", "-c", cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(pkgDir, ".download"))
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidConfiguration(t *testing.T) {
	t.Setenv(settings.SettingsPathEnv, "")
	t.Setenv(settings.ConfigPathEnv, "")

	cfgPath := filepath.Join(t.TempDir(), "copkg.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"packageDir":"/srv/pkgs"}`), 0644))

	_, err := run(t, "path", "com.acme:widget:1.2.0", "-c", cfgPath)
	assert.ErrorIs(t, err, config.ErrMissingField)

	_, err = run(t, "config", "show", "-c", filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, config.ErrRead)
}

// initConfig writes a configuration for pkgDir and returns its path
func initConfig(t *testing.T, pkgDir string, extra ...string) string {
	t.Helper()
	t.Setenv(settings.SettingsPathEnv, "")
	t.Setenv(settings.ConfigPathEnv, "")

	cfgPath := filepath.Join(t.TempDir(), "copkg.json")
	args := append([]string{"config", "init", pkgDir, "https://repo.example.com/packages", "-c", cfgPath}, extra...)
	_, err := run(t, args...)
	require.NoError(t, err)
	return cfgPath
}

func decodeOutput(t *testing.T, out string) CommandOutput {
	t.Helper()
	var result CommandOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	return result
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	pkgDir := filepath.Join(t.TempDir(), "packages")
	cfgPath := initConfig(t, pkgDir, "--username", "deploy", "--password", "")

	cfg, err := config.FromFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.Some("deploy"), cfg.Username())
	assert.Equal(t, config.Some(""), cfg.Password())

	_, err = run(t, "config", "init", pkgDir, "https://repo.example.com/packages", "--force", "-c", cfgPath)
	require.NoError(t, err)

	cfg, err = config.FromFile(cfgPath)
	require.NoError(t, err)
	assert.False(t, cfg.Username().IsSet())
	assert.False(t, cfg.Password().IsSet())

	// Without --force from the previous run the file is protected again
	_, err = run(t, "config", "init", pkgDir, "https://repo.example.com/packages", "-c", cfgPath)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "show", "--json", "-c", cfgPath)
	require.NoError(t, err)
	out, err := run(t, "config", "show", "-c", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Download directory")
}

func TestConfigShow(t *testing.T) {
	pkgDir := filepath.Join(t.TempDir(), "packages")
	cfgPath := initConfig(t, pkgDir, "--username", "deploy")

	cfg, err := config.FromFile(cfgPath)
	require.NoError(t, err)
	text, err := cfg.ToJSON()
	require.NoError(t, err)

	out, err := run(t, "config", "show", "-c", cfgPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, text+"\n"), out)
	assert.Contains(t, out, "Download directory: "+filepath.Join(pkgDir, ".download"))

	out, err = run(t, "config", "show", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, text+"\n", out)
	assert.NotContains(t, out, "downloadDir")

	parsed, err := config.FromJSON(out)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(cfg))
}

func TestJSONOutput(t *testing.T) {
	pkgDir := filepath.Join(t.TempDir(), "packages")
	cfgPath := initConfig(t, pkgDir)
	installDir := filepath.Join(pkgDir, "com", "acme", "widget", "1.2.0")
	downloadFile := filepath.Join(pkgDir, ".download", "com", "acme", "widget", "1.2.0", "widget-1.2.0.tar.gz")

	out, err := run(t, "path", "com.acme:widget:1.2.0", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, CommandOutput{
		InstallDir:   installDir,
		DownloadFile: downloadFile,
		DownloadURL:  "https://repo.example.com/packages/com/acme/widget/1.2.0/widget-1.2.0.tar.gz",
	}, decodeOutput(t, out))

	out, err = run(t, "stage", "com.acme:widget:1.2.0", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, CommandOutput{DownloadFile: downloadFile}, decodeOutput(t, out))
	require.NoError(t, os.WriteFile(downloadFile, []byte("artifact"), 0644))

	out, err = run(t, "promote", "com.acme:widget:1.2.0", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, CommandOutput{Installed: filepath.Join(installDir, "widget-1.2.0.tar.gz")}, decodeOutput(t, out))

	out, err = run(t, "path", "com.acme:widget:1.2.0", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "widget-1.2.0.tar.gz", decodeOutput(t, out).Installed)

	out, err = run(t, "list", "com.acme:widget", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, CommandOutput{Versions: []string{"1.2.0"}}, decodeOutput(t, out))

	out, err = run(t, "list", "com.acme:other", "--json", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, CommandOutput{}, decodeOutput(t, out))
}

func TestDiscardCommand(t *testing.T) {
	pkgDir := filepath.Join(t.TempDir(), "packages")
	cfgPath := initConfig(t, pkgDir)

	out, err := run(t, "stage", "com.acme:widget:1.3.0", "-c", cfgPath)
	require.NoError(t, err)
	target := strings.TrimSpace(out)
	require.NoError(t, os.WriteFile(target, []byte("partial"), 0644))

	_, err = run(t, "discard", "com.acme:widget:1.3.0", "-c", cfgPath)
	require.NoError(t, err)

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
	entries, err := os.ReadDir(filepath.Join(pkgDir, ".download"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = run(t, "promote", "com.acme:widget:1.3.0", "-c", cfgPath)
	assert.ErrorContains(t, err, "not staged")
}

func TestExitWithErrorClosesLogFile(t *testing.T) {
	logDir := t.TempDir()
	require.NoError(t, logging.InitLogger(logDir, "INFO", false))
	t.Cleanup(func() { logging.Close() })

	var code int
	osExit = func(c int) { code = c }
	t.Cleanup(func() { osExit = os.Exit })
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stdout) })

	logging.LogInfo("before exit")
	ExitWithError(errors.New("boom"))

	assert.Equal(t, 1, code)
	assert.Equal(t, CommandOutput{Error: "boom"}, decodeOutput(t, buf.String()))

	// The file handle is released, later records never reach it
	logging.LogInfo("after exit")
	data, err := os.ReadFile(filepath.Join(logDir, logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "before exit")
	assert.NotContains(t, string(data), "after exit")
}
