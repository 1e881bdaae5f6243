package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFormatLineIsStable(t *testing.T) {
	line := FormatLine(CascadeDeletedEvent{
		Kind: "market", ID: 3, DeletedAt: "2025-01-01T00:00:00Z",
		Removed: map[string]int64{"productMarket": 2, "cart": 1, "market": 1},
	})
	want := "[2025-01-01T00:00:00Z] Cascade delete | kind=market | id=3 | removed=[cart=1,market=1,productMarket=2]\n"
	if line != want {
		t.Fatalf("got %q\nwant %q", line, want)
	}
}

func TestHandleAppendsToLog(t *testing.T) {
	dir := t.TempDir()
	c := NewConsumer("", dir, zap.NewNop())
	body, _ := json.Marshal(CascadeDeletedEvent{Kind: "user", ID: 9, Removed: map[string]int64{"user": 1}})

	for i := 0; i < 2; i++ {
		if err := c.Handle(body); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "cascade.log"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "kind=user | id=9"); n != 2 {
		t.Fatalf("expected two lines, got %d:\n%s", n, data)
	}
}

func TestHandleRejectsMalformed(t *testing.T) {
	c := NewConsumer("", t.TempDir(), zap.NewNop())
	if err := c.Handle([]byte("{")); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if err := c.Handle([]byte(`{"kind":""}`)); err == nil {
		t.Fatal("expected error for empty event")
	}
}
