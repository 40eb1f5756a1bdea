package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	TotalTasks int    `json:"totalTasks" yaml:"total_tasks"`
	Status     string `json:"status" yaml:"status"`
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSONFormatter{}).Write(&buf, sample{TotalTasks: 3, Status: "DOING"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"totalTasks\":3,\"status\":\"DOING\"}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestYAMLFormatterUsesYAMLTags(t *testing.T) {
	var buf bytes.Buffer
	if err := (YAMLFormatter{}).Write(&buf, sample{TotalTasks: 3, Status: "DOING"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "total_tasks: 3") || !strings.Contains(out, "status: DOING") {
		t.Fatalf("unexpected yaml: %q", out)
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		name    string
		wantNil bool
		wantErr bool
	}{
		{name: "", wantNil: true},
		{name: "text", wantNil: true},
		{name: "json"},
		{name: "JSON-Pretty"},
		{name: "yaml"},
		{name: "yml"},
		{name: "xml", wantNil: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ForName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if (f == nil) != tt.wantNil {
				t.Fatalf("unexpected formatter: %#v", f)
			}
		})
	}
}
