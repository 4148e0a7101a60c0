package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBarkClient_Push(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewBarkClient(srv.URL + "/")
	if err := c.Push(context.Background(), "转换成功", "一本书/两章"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "%E8%BD%AC%E6%8D%A2%E6%88%90%E5%8A%9F") {
		t.Errorf("expected escaped title in path, got %q", gotPath)
	}
	if strings.Contains(strings.TrimPrefix(gotPath, "/"), "//") {
		t.Errorf("path separators in body must be escaped, got %q", gotPath)
	}
}

func TestBarkClient_PushErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewBarkClient(srv.URL)
	if err := c.Push(context.Background(), "t", "b"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestBarkClient_NilClientIsNoop(t *testing.T) {
	var c *BarkClient
	if err := c.Push(context.Background(), "t", "b"); err != nil {
		t.Fatalf("nil client must be a no-op, got %v", err)
	}
	if NewBarkClient("") != nil {
		t.Fatal("empty base URL must yield nil client")
	}
}
