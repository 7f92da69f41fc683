package docs

import (
	"strings"
	"testing"
)

func TestTopicsAndGet(t *testing.T) {
	t.Parallel()

	topics := Topics()
	if len(topics) == 0 {
		t.Fatal("no embedded topics")
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok {
			t.Fatalf("Get(%q) = false for a listed topic", topic)
		}
		if !strings.HasPrefix(body, "#") {
			t.Fatalf("topic %q does not start with a heading", topic)
		}
	}
}

func TestGetNormalizesAndRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, ok := Get("  KEYS  "); !ok {
		t.Fatal("lookup should trim and case-fold")
	}
	if _, ok := Get("no-such-topic"); ok {
		t.Fatal("unknown topic reported present")
	}
	if _, ok := Get(""); ok {
		t.Fatal("empty topic reported present")
	}
}
