package workflow

import (
	"encoding/json"
	"testing"
)

func TestBodyDecodesStrings(t *testing.T) {
	var b Body
	if err := json.Unmarshal([]byte(`{"repo":"relayhq/relay","branch":"main"}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b["repo"] != "relayhq/relay" || b["branch"] != "main" {
		t.Errorf("body = %v", b)
	}
}

func TestBodyStringifiesScalars(t *testing.T) {
	var b Body
	if err := json.Unmarshal([]byte(`{"count":3,"active":true,"note":null}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b["count"] != "3" {
		t.Errorf("count = %q, want 3", b["count"])
	}
	if b["active"] != "true" {
		t.Errorf("active = %q, want true", b["active"])
	}
	if v, ok := b["note"]; !ok || v != "" {
		t.Errorf("note = %q (present=%v), want empty string", v, ok)
	}
}

func TestBodyDropsNestedShapes(t *testing.T) {
	var b Body
	if err := json.Unmarshal([]byte(`{"ok":"yes","nested":{"a":1},"list":[1,2]}`), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(b) != 1 || b["ok"] != "yes" {
		t.Errorf("body = %v, want only the string entry", b)
	}
}

func TestBodyNonObjectBecomesEmpty(t *testing.T) {
	for _, raw := range []string{`"oops"`, `42`, `[1,2,3]`, `null`} {
		var b Body
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if len(b) != 0 {
			t.Errorf("body for %s = %v, want empty", raw, b)
		}
	}
}
