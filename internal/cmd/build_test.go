package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NeuralNotwerk/q-framework/internal/history"
)

// writeSourceTree creates a temp directory with the default include paths
// populated: .amazonq/rules/a.md and AmazonQ.md.
func writeSourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	rulesDir := filepath.Join(dir, ".amazonq", "rules")
	if err := os.MkdirAll(rulesDir, 0755); err != nil {
		t.Fatalf("Failed to create rules dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(rulesDir, "a.md"), []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to write a.md: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "AmazonQ.md"), []byte("# Root Doc\n\nroot content\n"), 0644); err != nil {
		t.Fatalf("Failed to write AmazonQ.md: %v", err)
	}

	return dir
}

// runBuildCmd executes the build command with the given args and returns
// the captured output.
func runBuildCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewBuildCommand()
	cmd.SetArgs(args)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}

	err := cmd.Execute()
	return buf.String(), err
}

func TestBuildCommand_GeneratesScript(t *testing.T) {
	srcDir := writeSourceTree(t)

	output, err := runBuildCmd(t, "", srcDir)
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	scriptPath := filepath.Join(srcDir, "install_q_framework.sh")
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("Generated script not found: %v", err)
	}

	content := string(script)
	if !strings.HasPrefix(content, "#!/bin/bash") {
		t.Errorf("Script missing shebang, starts with: %.40s", content)
	}

	// Both default includes must be embedded with decodable content
	wantEntries := map[string]string{
		".amazonq/rules/a.md": "hello",
		"AmazonQ.md":          "# Root Doc\n\nroot content\n",
	}
	for path, raw := range wantEntries {
		call := fmt.Sprintf("create_file_from_base64 %q %q", path, base64.StdEncoding.EncodeToString([]byte(raw)))
		if !strings.Contains(content, call) {
			t.Errorf("Script missing embedded entry for %s", path)
		}
	}

	if !strings.Contains(content, `create_directory ".amazonq/rules"`) {
		t.Errorf("Script missing directory entry for .amazonq/rules")
	}

	// Default mode is executable
	info, err := os.Stat(scriptPath)
	if err != nil {
		t.Fatalf("Failed to stat script: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("Expected executable script, got mode %v", info.Mode())
	}

	if !strings.Contains(output, "Generated:") {
		t.Errorf("Expected success output, got: %s", output)
	}
}

func TestBuildCommand_NoExec(t *testing.T) {
	srcDir := writeSourceTree(t)

	output, err := runBuildCmd(t, "", srcDir, "--no-exec")
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	info, err := os.Stat(filepath.Join(srcDir, "install_q_framework.sh"))
	if err != nil {
		t.Fatalf("Failed to stat script: %v", err)
	}
	if info.Mode().Perm()&0111 != 0 {
		t.Errorf("Expected non-executable script with --no-exec, got mode %v", info.Mode())
	}
	if strings.Contains(output, "Script is executable") {
		t.Errorf("Did not expect executable confirmation, got: %s", output)
	}
}

func TestBuildCommand_CustomOutput(t *testing.T) {
	srcDir := writeSourceTree(t)

	output, err := runBuildCmd(t, "", srcDir, "-o", "setup.sh")
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	scriptPath := filepath.Join(srcDir, "setup.sh")
	if _, err := os.Stat(scriptPath); err != nil {
		t.Fatalf("Expected script at custom output path: %v", err)
	}
	if !strings.Contains(output, "setup.sh") {
		t.Errorf("Expected custom output name in output, got: %s", output)
	}
}

func TestBuildCommand_OverwritePromptDeclined(t *testing.T) {
	srcDir := writeSourceTree(t)
	scriptPath := filepath.Join(srcDir, "install_q_framework.sh")
	if err := os.WriteFile(scriptPath, []byte("original"), 0644); err != nil {
		t.Fatalf("Failed to write existing script: %v", err)
	}

	output, err := runBuildCmd(t, "n\n", srcDir)
	if err != nil {
		t.Fatalf("Expected clean exit on declined overwrite, got: %v", err)
	}
	if !strings.Contains(output, "Operation cancelled") {
		t.Errorf("Expected cancellation message, got: %s", output)
	}

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}
	if string(content) != "original" {
		t.Errorf("Existing script was modified after declined overwrite")
	}
}

func TestBuildCommand_OverwritePromptAccepted(t *testing.T) {
	srcDir := writeSourceTree(t)
	scriptPath := filepath.Join(srcDir, "install_q_framework.sh")
	if err := os.WriteFile(scriptPath, []byte("original"), 0644); err != nil {
		t.Fatalf("Failed to write existing script: %v", err)
	}

	output, err := runBuildCmd(t, "y\n", srcDir)
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}
	if !strings.HasPrefix(string(content), "#!/bin/bash") {
		t.Errorf("Expected regenerated script after confirmed overwrite")
	}
}

func TestBuildCommand_ForceOverwrite(t *testing.T) {
	srcDir := writeSourceTree(t)
	scriptPath := filepath.Join(srcDir, "install_q_framework.sh")
	if err := os.WriteFile(scriptPath, []byte("original"), 0644); err != nil {
		t.Fatalf("Failed to write existing script: %v", err)
	}

	// No stdin provided: any prompt would fail the test by declining
	output, err := runBuildCmd(t, "", srcDir, "--force")
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}
	if strings.Contains(output, "Overwrite?") {
		t.Errorf("Did not expect overwrite prompt with --force, got: %s", output)
	}

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}
	if !strings.HasPrefix(string(content), "#!/bin/bash") {
		t.Errorf("Expected regenerated script with --force")
	}
}

func TestBuildCommand_MissingSource(t *testing.T) {
	_, err := runBuildCmd(t, "", filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("Expected error for missing source directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestBuildCommand_ClearDefaults(t *testing.T) {
	srcDir := writeSourceTree(t)

	output, err := runBuildCmd(t, "", srcDir, "--clear-defaults", "--include", "AmazonQ.md")
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	script, err := os.ReadFile(filepath.Join(srcDir, "install_q_framework.sh"))
	if err != nil {
		t.Fatalf("Generated script not found: %v", err)
	}
	content := string(script)

	if !strings.Contains(content, `"AmazonQ.md"`) {
		t.Errorf("Expected AmazonQ.md in script")
	}
	if strings.Contains(content, ".amazonq/rules/a.md") {
		t.Errorf("Did not expect .amazonq content with --clear-defaults")
	}
}

func TestBuildCommand_Exclude(t *testing.T) {
	srcDir := writeSourceTree(t)

	output, err := runBuildCmd(t, "", srcDir, "--exclude", ".amazonq/rules")
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	script, err := os.ReadFile(filepath.Join(srcDir, "install_q_framework.sh"))
	if err != nil {
		t.Fatalf("Generated script not found: %v", err)
	}
	content := string(script)

	if strings.Contains(content, ".amazonq/rules/a.md") {
		t.Errorf("Excluded subtree still present in script")
	}
	if !strings.Contains(content, `"AmazonQ.md"`) {
		t.Errorf("Expected AmazonQ.md in script")
	}
}

func TestBuildCommand_EmptyScanPromptDeclined(t *testing.T) {
	// Source directory without any default include paths
	srcDir := t.TempDir()

	output, err := runBuildCmd(t, "n\n", srcDir, "--exclude", "*.bin")
	if err != nil {
		t.Fatalf("Expected clean exit on declined empty build, got: %v", err)
	}
	if !strings.Contains(output, "No files found to include") {
		t.Errorf("Expected empty-scan warning, got: %s", output)
	}
	// Include paths and exclude patterns are labeled so the user can
	// tell which list to fix
	if !strings.Contains(output, "include: .amazonq") {
		t.Errorf("Expected labeled include entry in warning, got: %s", output)
	}
	if !strings.Contains(output, "exclude: *.bin") {
		t.Errorf("Expected labeled exclude entry in warning, got: %s", output)
	}
	if !strings.Contains(output, "Operation cancelled") {
		t.Errorf("Expected cancellation message, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(srcDir, "install_q_framework.sh")); err == nil {
		t.Errorf("Script should not be generated after cancellation")
	}
}

func TestBuildCommand_EmptyScanPromptAccepted(t *testing.T) {
	srcDir := t.TempDir()

	output, err := runBuildCmd(t, "y\n", srcDir)
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	script, err := os.ReadFile(filepath.Join(srcDir, "install_q_framework.sh"))
	if err != nil {
		t.Fatalf("Expected script after confirmed empty build: %v", err)
	}
	if !strings.Contains(string(script), "create_files()") {
		t.Errorf("Expected installer skeleton even with no files")
	}
}

func TestBuildCommand_BothPromptsShareInput(t *testing.T) {
	// Empty source plus an existing output file triggers both the
	// overwrite prompt and the empty-scan prompt in one run; the second
	// answer must not be swallowed by the first read
	srcDir := t.TempDir()
	scriptPath := filepath.Join(srcDir, "install_q_framework.sh")
	if err := os.WriteFile(scriptPath, []byte("original"), 0644); err != nil {
		t.Fatalf("Failed to write existing script: %v", err)
	}

	output, err := runBuildCmd(t, "y\ny\n", srcDir)
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "Overwrite?") {
		t.Errorf("Expected overwrite prompt, got: %s", output)
	}
	if !strings.Contains(output, "Continue anyway?") {
		t.Errorf("Expected empty-scan prompt, got: %s", output)
	}
	if strings.Contains(output, "Operation cancelled") {
		t.Errorf("Second confirmation was dropped, got: %s", output)
	}

	content, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}
	if !strings.HasPrefix(string(content), "#!/bin/bash") {
		t.Errorf("Expected regenerated script after confirming both prompts")
	}
}

func TestBuildCommand_RecordsHistory(t *testing.T) {
	srcDir := writeSourceTree(t)

	output, err := runBuildCmd(t, "", srcDir)
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	store, err := history.NewStore(filepath.Join(srcDir, ".qfi", "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history store: %v", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].FileCount != 2 {
		t.Errorf("Expected 2 files recorded, got %d", runs[0].FileCount)
	}
	if runs[0].SourcePath != srcDir {
		t.Errorf("Expected source path %s, got %s", srcDir, runs[0].SourcePath)
	}
}

func TestBuildCommand_ConfigFile(t *testing.T) {
	srcDir := writeSourceTree(t)
	cfgDir := filepath.Join(srcDir, ".qfi")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	cfgYAML := "output: from_config.sh\nhistory:\n  enabled: false\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfgYAML), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	output, err := runBuildCmd(t, "", srcDir)
	if err != nil {
		t.Fatalf("Build command failed: %v\nOutput: %s", err, output)
	}

	if _, err := os.Stat(filepath.Join(srcDir, "from_config.sh")); err != nil {
		t.Fatalf("Expected script at configured output path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfgDir, "history.db")); err == nil {
		t.Errorf("History should be disabled by config")
	}
}
