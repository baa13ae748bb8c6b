package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name  string
		total int
		steps []bool
		want  string
	}{
		{"half done", 4, []bool{false, false}, " 50% (2/4)"},
		{"with failures", 3, []bool{false, true, true}, "100% (3/3), 2 failed"},
		{"unknown total", 0, []bool{false, false, true}, "\rexec 3, 1 failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			bar := NewProgressBar(&buf, "exec", tt.total)
			for _, failed := range tt.steps {
				bar.Step(failed)
			}
			if !strings.HasSuffix(buf.String(), tt.want) {
				t.Errorf("output = %q, want suffix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestProgressBar_Finish(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, "exec", 2)
	bar.Step(false)
	bar.Finish()

	out := buf.String()
	if !strings.HasSuffix(out, " 50% (1/2)\n") {
		t.Errorf("output = %q, want the last state and a newline", out)
	}
	if strings.Count(out, "\r") != 2 {
		t.Errorf("output = %q, want one redraw per call", out)
	}
}
