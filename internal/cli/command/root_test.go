package command

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}

	if app.Name != "kvplay" {
		t.Errorf("Name = %q, want %q", app.Name, "kvplay")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if app.Action == nil {
		t.Error("default action should start the console")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	requiredCommands := []string{"repl", "exec", "commands", "config", "version"}
	for _, name := range requiredCommands {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}

	requiredFlags := []string{"config", "log-level", "output", "wide"}
	for _, name := range requiredFlags {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestApp_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad output", []string{"-o", "csv", "version"}},
		{"bad log level", []string{"--log-level", "loud", "version"}},
		{"missing config", []string{"--config", "/nonexistent/kvplay.yaml", "version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, "", tt.args...)
			if exitCode(err) != 2 {
				t.Errorf("Run() error = %v, want exit code 2", err)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runApp(t, "", "-o", "json", "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var info struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if info.Version == "" || info.GoVersion == "" {
		t.Errorf("info = %+v", info)
	}
}

func TestCommandsCommand(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, _, err := runApp(t, "", "-o", "json", "commands")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		var cmds []map[string]any
		if err := json.Unmarshal([]byte(out), &cmds); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(cmds) != 22 {
			t.Errorf("len(commands) = %d, want 22", len(cmds))
		}
		if _, ok := cmds[0]["MinArgs"]; ok {
			t.Error("arity bounds should not be exported")
		}
	})

	t.Run("group", func(t *testing.T) {
		out, _, err := runApp(t, "", "commands", "--group", "hash")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		for _, want := range []string{"NAME", "HSET", "HGETALL"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "LPUSH") {
			t.Errorf("output should only list hash commands:\n%s", out)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		_, _, err := runApp(t, "", "commands", "--group", "stream")
		if exitCode(err) != 1 {
			t.Errorf("Run() error = %v, want exit code 1", err)
		}
	})
}
