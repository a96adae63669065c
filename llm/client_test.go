package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tahs-labs/historiographer/domain"
)

func testHistory() []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: "You are an archivist."},
		{Role: domain.RoleUser, Content: "hello"},
	}
}

func TestClientGenerateReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages: %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"llama-3.3-70b-versatile","choices":[{"index":0,"message":{"role":"assistant","content":"Welcome."},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 0.7)
	reply, err := client.GenerateReply(context.Background(), testHistory())
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply != "Welcome." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestClientGenerateReplyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 0.7)
	_, err := client.GenerateReply(context.Background(), testHistory())
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestClientGenerateReplyNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 0.7)
	_, err := client.GenerateReply(context.Background(), testHistory())
	if err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestClientGenerateReplyDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, "", "", 0.7)
	_, err := client.GenerateReply(ctx, testHistory())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestClientSendsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "", 0.7)
	if _, err := client.GenerateReply(context.Background(), testHistory()); err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
}
