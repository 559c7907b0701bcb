package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := map[string]bool{
		"migrate": false,
		"prune":   false,
		"stats":   false,
		"version": false,
	}

	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCommand_Output(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	got := out.String()
	if !strings.Contains(got, "Parley v"+AppVersion) {
		t.Errorf("output %q missing version line", got)
	}
	if !strings.Contains(got, "Commit: "+GitCommit) {
		t.Errorf("output %q missing commit line", got)
	}
}
