package logger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

func TestRedactorValues(t *testing.T) {
	r := &redactor{enabled: true, salt: "pepper"}

	for _, name := range []string{"password", "email", "access_token", "verification_code"} {
		if got := r.value(name, "hunter2"); got != redacted {
			t.Fatalf("%s: want=%s got=%v", name, redacted, got)
		}
	}
	id := uuid.MustParse("6f1c2b7e-0f4e-4bd8-9d3c-6f0b3c5d9a10")
	h, ok := r.value("user_id", id).(string)
	if !ok || !strings.HasPrefix(h, "hash:") || len(h) != len("hash:")+12 {
		t.Fatalf("user_id: unexpected hash %v", h)
	}
	if again := r.value("author_id", id.String()); again != h {
		t.Fatalf("hash not stable across field names: %v vs %v", again, h)
	}
	if got := r.value("course_id", "abc"); got != "abc" {
		t.Fatalf("course_id: want=abc got=%v", got)
	}
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	if got := r.value("note", jwt); got != redacted {
		t.Fatalf("bare jwt: want=%s got=%v", redacted, got)
	}
	nested := r.value("payload", map[string]interface{}{"password": "x", "title": "Go"}).(map[string]interface{})
	if nested["password"] != redacted || nested["title"] != "Go" {
		t.Fatalf("nested map: %v", nested)
	}
}

func TestRedactorFields(t *testing.T) {
	off := &redactor{}
	kv := []interface{}{"password", "x"}
	if got := off.fields(kv); got[1] != "x" {
		t.Fatalf("disabled redactor changed value: %v", got)
	}

	on := &redactor{enabled: true}
	got := on.fields([]interface{}{"password", "x", "dangling"})
	if len(got) != 3 || got[1] != redacted || got[2] != "dangling" {
		t.Fatalf("fields: %v", got)
	}
	if kv[1] != "x" {
		t.Fatalf("input slice was mutated: %v", kv)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	if lvl := levelFromEnv(zapcore.DebugLevel); lvl != zapcore.WarnLevel {
		t.Fatalf("level: want=warn got=%s", lvl)
	}
	t.Setenv("LOG_LEVEL", "loud")
	if lvl := levelFromEnv(zapcore.InfoLevel); lvl != zapcore.InfoLevel {
		t.Fatalf("bad level: want=info got=%s", lvl)
	}
	t.Setenv("LOG_LEVEL", "")
	if lvl := levelFromEnv(zapcore.DebugLevel); lvl != zapcore.DebugLevel {
		t.Fatalf("default level: want=debug got=%s", lvl)
	}
}
