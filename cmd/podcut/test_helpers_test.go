package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podcut/internal/testsupport"
	"podcut/internal/transcript"
	"podcut/internal/workspace"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	workspace  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PODCUT_LOG_LEVEL", "")
	t.Setenv("PODCUT_LEXICON", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "podcut.toml"),
		stateDir:   filepath.Join(base, "state"),
		workspace:  filepath.Join(base, "episode"),
	}
	writeTestConfig(t, env.configPath, env.stateDir, filepath.Join(base, "logs"))

	if err := os.MkdirAll(env.workspace, 0o755); err != nil {
		t.Fatalf("mkdir workspace: %v", err)
	}
	testsupport.WriteJSON(t, env.workspace, workspace.WordsFile, episodeWords())
	return env
}

func writeTestConfig(t *testing.T, path, stateDir, logDir string) {
	t.Helper()
	content := fmt.Sprintf("[paths]\nstate_dir = %q\nlog_dir = %q\n\n[logging]\nlevel = \"error\"\n", stateDir, logDir)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// episodeWords is ten short sentences with natural pauses and one restart
// ("我觉得 等一下 我觉得") in the fifth sentence.
func episodeWords() []transcript.Word {
	sentences := [][]string{
		{"今天", "我们", "来", "聊聊", "播客。"},
		{"这个", "节目", "已经", "做了", "三年。"},
		{"后期", "剪辑", "其实", "很", "花时间。"},
		{"每期", "都要", "反复", "听", "好几遍。"},
		{"我觉得", "等一下", "我觉得", "这样", "不对。"},
		{"所以", "我们", "写了", "一个", "工具。"},
		{"它", "能", "自动", "找到", "口误。"},
		{"还能", "把", "长", "停顿", "缩短。"},
		{"大家", "可以", "试试", "看", "效果。"},
		{"下期", "再见", "谢谢", "大家", "收听。"},
	}
	pauses := []float64{0.6, 0.7, 1.0, 0.8, 1.2, 0.7, 1.1, 0.8, 1.0}
	b := testsupport.NewTranscript()
	for i, s := range sentences {
		b.Say(s...)
		if i < len(pauses) {
			b.Gap(pauses[i])
		}
	}
	return b.Words()
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
