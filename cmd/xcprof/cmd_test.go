package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/testutil"
	"github.com/ludo-technologies/xcprof/internal/version"
)

func TestReportCmd_FlagsExist(t *testing.T) {
	cmd := reportCmd()

	expected := []string{
		"warn", "fail", "inline", "working-dir", "sink", "format", "config",
		"github-repo", "github-pr", "github-sha", "log-level", "log-json", "concurrency",
	}
	for _, name := range expected {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing expected flag: --%s", name)
		}
	}

	for short, long := range map[string]string{"c": "config", "f": "format"} {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestReportCmd_DefaultValues(t *testing.T) {
	cmd := reportCmd()

	defaults := map[string]string{
		"inline": "true",
		"sink":   "console",
		"format": "text",
	}
	for name, want := range defaults {
		if got := cmd.Flags().Lookup(name).DefValue; got != want {
			t.Errorf("--%s default = %q, want %q", name, got, want)
		}
	}
}

func TestReportCmd_NoTargets(t *testing.T) {
	cmd := reportCmd()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
}

const testConfig = "thresholds:\n  warn_ms: 50\n  fail_ms: 100\n"

func runReportCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runReportCmdStreams(t, args...)
	return out, err
}

func runReportCmdStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := reportCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReportCmd_ReportFileJSON(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateConfig(t, dir, testConfig)
	testutil.WriteReport(t, dir, "report.json",
		testutil.Row{Method: "Slow.init", Path: filepath.Join(dir, "Slow.swift"), Line: 4, Time: 150},
		testutil.Row{Method: "Meh.body", Path: "Meh.swift", Line: 9, Time: 60},
		testutil.Row{Method: "Fast.run", Path: "Fast.swift", Line: 1, Time: 3},
	)

	out, err := runReportCmd(t, "--working-dir", dir, "--format", "json", "report.json")

	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected exit code 1 for a failing entry, got %v", err)
	}

	var result domain.RunResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.Summary.FailEntries != 1 || result.Summary.WarnEntries != 1 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}

	inline := result.Targets[0].Report.Inline
	if len(inline) != 2 || inline[0].Location.FilePath != "Slow.swift" {
		t.Errorf("absolute paths should be made relative to the working dir: %+v", inline)
	}

	if len(result.Comments) != 2 {
		t.Fatalf("recorded comments should be part of the output: %+v", result.Comments)
	}
	first := result.Comments[0]
	if first.Kind != domain.CommentInline || first.File != "Slow.swift" || first.Line != 4 || first.Severity != domain.SeverityFail {
		t.Errorf("unexpected first comment: %+v", first)
	}
}

func TestReportCmd_ActionsSinkKeepsJSONParseable(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateConfig(t, dir, testConfig)
	testutil.WriteReport(t, dir, "report.json",
		testutil.Row{Method: "Slow.init", Path: "Slow.swift", Line: 4, Time: 150},
		testutil.Row{Method: "Meh.body", Time: 60},
	)

	out, errOut, err := runReportCmdStreams(t, "--working-dir", dir, "--sink", "actions", "--format", "json", "report.json")

	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}

	var result domain.RunResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("stdout is not parseable JSON: %v\n%s", err, out)
	}
	if result.Summary.FailEntries != 1 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}

	if !strings.Contains(errOut, "::error file=Slow.swift,line=4::") {
		t.Errorf("workflow commands should go to stderr:\n%s", errOut)
	}
	if !strings.Contains(errOut, "::notice title=Compilation time report::") {
		t.Errorf("summary notice should go to stderr:\n%s", errOut)
	}
}

func TestReportCmd_PassingRun(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateConfig(t, dir, testConfig)
	testutil.WriteFile(t, dir, "report.yaml", "- method_name: Meh.body\n  path: Meh.swift\n  line: 9\n  time: 60\n")

	out, err := runReportCmd(t, "--working-dir", dir, "report.yaml")
	if err != nil {
		t.Fatalf("warnings alone should pass, got %v", err)
	}
	if !strings.Contains(out, "WARN Meh.swift:9") {
		t.Errorf("console sink output missing:\n%s", out)
	}
	if !strings.Contains(out, "Result: PASSED") {
		t.Errorf("text summary missing:\n%s", out)
	}
}

func TestReportCmd_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateConfig(t, dir, testConfig)
	testutil.WriteReport(t, dir, "report.json", testutil.Row{Method: "A", Path: "A.swift", Line: 1, Time: 150})

	out, err := runReportCmd(t, "--working-dir", dir, "--fail", "200", "--inline=false", "--sink", "actions", "report.json")
	if err != nil {
		t.Fatalf("raised fail threshold should pass, got %v", err)
	}
	if !strings.Contains(out, "::notice title=Compilation time report::[WARN]") {
		t.Errorf("expected summary notice with inline disabled:\n%s", out)
	}
	if strings.Contains(out, "::warning file=") {
		t.Errorf("no inline annotation expected:\n%s", out)
	}
}

func TestReportCmd_MissingReportIsWarning(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateConfig(t, dir, testConfig)

	out, err := runReportCmd(t, "--working-dir", dir, "missing.json")
	if err != nil {
		t.Fatalf("missing build data must not fail the run, got %v", err)
	}
	if strings.Count(out, "WARNING ") != 1 {
		t.Errorf("expected exactly one warning:\n%s", out)
	}
}

func TestReportCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.IsolateConfig(t, dir, testConfig)
	testutil.WriteReport(t, dir, "report.json")

	_, err := runReportCmd(t, "--working-dir", dir, "--format", "html", "report.json")
	var exitErr *CheckExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Fatalf("expected exit code 2, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "xcprof version ") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var info version.BuildInfo
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if info.Version != version.GetVersion() || info.Commit == "" {
		t.Errorf("unexpected build info: %+v", info)
	}
}

func TestVersionCmd_UnknownFormat(t *testing.T) {
	cmd := versionCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"report", "init", "version"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Errorf("missing subcommand %s: %v", name, err)
		}
	}
}
