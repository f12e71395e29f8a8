package auth

import (
	"context"
	"testing"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: "u-1", Email: "p@example.com"})
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.UserID != "u-1" || got.Email != "p@example.com" {
		t.Errorf("got %+v", got)
	}
	if UserID(ctx) != "u-1" {
		t.Errorf("UserID = %q", UserID(ctx))
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected false for missing AuthContext")
	}
	if UserID(context.Background()) != "" {
		t.Error("expected anonymous user id")
	}
}
