package logger

import (
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, _ := newJSON(t, "info")
	ctx := WithLogger(context.Background(), l)

	if FromContext(ctx) != l {
		t.Error("FromContext() did not return the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() without logger returned nil")
	}
}

func TestConnIDAndRemoteAddr(t *testing.T) {
	ctx := WithConnID(context.Background(), "01HZX0000000000000000000")
	ctx = WithRemoteAddr(ctx, "10.0.0.1:5000")

	if got := ConnIDFromContext(ctx); got != "01HZX0000000000000000000" {
		t.Errorf("ConnIDFromContext() = %q", got)
	}
	if got := RemoteAddrFromContext(ctx); got != "10.0.0.1:5000" {
		t.Errorf("RemoteAddrFromContext() = %q", got)
	}
	if ConnIDFromContext(context.Background()) != "" {
		t.Error("ConnIDFromContext() on empty context should be empty")
	}
}

func TestL_EnrichesLogger(t *testing.T) {
	l, buf := newJSON(t, "info")
	ctx := WithLogger(context.Background(), l)
	ctx = WithConnID(ctx, "conn-1")
	ctx = WithRemoteAddr(ctx, "127.0.0.1:1234")

	L(ctx).Info("accepted")

	entry := decodeEntry(t, buf.Bytes())
	if entry["conn_id"] != "conn-1" || entry["remote_addr"] != "127.0.0.1:1234" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSlog_ContextFields(t *testing.T) {
	l, buf := newJSON(t, "info")
	ctx := WithConnID(context.Background(), "conn-2")

	Slog(l).InfoContext(ctx, "via slog")
	entry := decodeEntry(t, buf.Bytes())
	if entry["conn_id"] != "conn-2" {
		t.Errorf("conn_id = %v", entry["conn_id"])
	}
	if _, ok := entry["remote_addr"]; ok {
		t.Error("remote_addr should be absent when not in context")
	}

	buf.Reset()
	Slog(l).Info("no context")
	if entry := decodeEntry(t, buf.Bytes()); entry["conn_id"] != nil {
		t.Errorf("conn_id without context = %v", entry["conn_id"])
	}
}
