package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/dmitrijs2005/severity/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestInterceptor_PublicMethodsSkipToken(t *testing.T) {
	s := newServer(&fakeUser{verifyErr: common.ErrInvalidToken}, &fakePrediction{})

	for _, m := range []string{RegisterMethod, LoginMethod} {
		called := false
		h := func(ctx context.Context, req any) (any, error) {
			called = true
			return "ok", nil
		}
		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m}, h)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if !called || resp != "ok" {
			t.Fatalf("%s: handler was not called", m)
		}
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newServer(&fakeUser{}, &fakePrediction{})

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: PredictMethod}, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newServer(&fakeUser{verifyErr: common.ErrTokenRevoked}, &fakePrediction{})

	md := metadata.New(map[string]string{common.AccessTokenHeaderName: "revoked"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called on invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: HistoryMethod}, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_ValidTokenSetsClaims(t *testing.T) {
	want := &auth.Claims{UserID: 11, UserName: "budi"}
	s := newServer(&fakeUser{claims: want}, &fakePrediction{})

	md := metadata.New(map[string]string{common.AccessTokenHeaderName: "good"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var got *auth.Claims
	h := func(ctx context.Context, req any) (any, error) {
		c, err := claimsFromContext(ctx)
		if err != nil {
			t.Fatalf("claims missing: %v", err)
		}
		got = c
		return nil, nil
	}

	if _, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: DeleteHistoryMethod}, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("claims not propagated: %+v", got)
	}
}
