package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func complete(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(append([]string{"__complete"}, args...))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("__complete %v error: %v", args, err)
	}
	return out.String()
}

func TestCompletePurchased(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "prefix",
			args:    []string{"layout", "--purchased", "U2"},
			want:    []string{"U2\t+Breaker Radius I", "U20", "U22"},
			notWant: []string{"U1\t"},
		},
		{
			name:    "after comma",
			args:    []string{"render", "--purchased", "U1,U1"},
			want:    []string{"U1,U1\t", "U1,U10", "U1,U19"},
			notWant: []string{"U1,U2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := complete(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("completions missing %q:\n%s", w, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("completions contain %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"completion", "bash"})
	root.SetOut(&out)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("completion bash error: %v", err)
	}
	if !strings.Contains(out.String(), "upgradetree") {
		t.Error("bash completion script does not mention upgradetree")
	}

	if err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
