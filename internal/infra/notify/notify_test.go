package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Spok95/sitin-tracker/internal/infra/logger"
)

func TestNewFallsBackToLog(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("test", &buf)

	n := New("", 0, log)
	if _, ok := n.(*Log); !ok {
		t.Fatalf("New without token = %T, want *Log", n)
	}
	if err := n.Notify(context.Background(), "lab 524 is full"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "lab 524 is full") {
		t.Errorf("log output = %q", buf.String())
	}

	// a token without a chat id never reaches the network
	if _, ok := New("123:abc", 0, log).(*Log); !ok {
		t.Error("New without chat id did not fall back to Log")
	}
}
