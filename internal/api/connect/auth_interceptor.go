// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"

	"connectrpc.com/connect"

	"github.com/osa030/speedreader/internal/infra/config"
)

const (
	// TokenHeader is the header name for the control token.
	TokenHeader = "X-Reader-Token"
)

// NewAuthInterceptor creates an interceptor that validates the control token
// from request metadata. It is installed on control procedures only.
func NewAuthInterceptor(cfg *config.Config) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token := req.Header().Get(TokenHeader)
			if token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, nil)
			}

			if token != cfg.Auth.Token {
				return nil, connect.NewError(connect.CodeUnauthenticated, nil)
			}

			return next(ctx, req)
		}
	}
}

// NewTokenInterceptor creates a client interceptor that attaches the control token.
func NewTokenInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient && token != "" {
				req.Header().Set(TokenHeader, token)
			}
			return next(ctx, req)
		}
	}
}
