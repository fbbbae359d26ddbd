package endpointutil

import (
	"context"
	"time"

	"github.com/formlytics/formlytics-api/internal/api/session"
	"github.com/formlytics/formlytics-api/internal/shared/apperrors"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/request"
)

type contextKey string

const (
	contextKeyRequestContext contextKey = "endpoint/requestContext"
	contextKeyError          contextKey = "endpoint/error"
)

func RequestContext(ctx context.Context) request.Context {
	rc := ctx.Value(contextKeyRequestContext)
	if rc == nil {
		return nil
	}
	return rc.(request.Context)
}

func StoreRequestContext(ctx context.Context, rc request.Context) context.Context {
	return context.WithValue(ctx, contextKeyRequestContext, rc)
}

func StoreError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, contextKeyError, err)
}

func Error(ctx context.Context) error {
	v := ctx.Value(contextKeyError)
	if v == nil {
		return nil
	}

	return v.(error)
}

func makeBaseRequestContext(ctx context.Context, sctx *session.RequestContext, hctx *HandlerRegContext) *request.BaseContext {
	lctx := logutil.Context{}
	log := hctx.Log
	log = logutil.WrapLogWithContext(log, lctx)
	log = apperrors.WrapLogWithTracker(log, lctx, hctx.ErrTracker)

	return &request.BaseContext{
		Ctx:       ctx,
		Log:       log,
		Lctx:      lctx,
		DB:        hctx.DB,
		StartedAt: time.Now(),
		SessCtx:   sctx,
	}
}

func MakeAnonymousRequestContext(ctx context.Context, sctx *session.RequestContext, hctx *HandlerRegContext) *request.AnonymousContext {
	return &request.AnonymousContext{
		BaseContext: *makeBaseRequestContext(ctx, sctx, hctx),
	}
}

func MakeAuthorizedRequestContext(ctx context.Context, sctx *session.RequestContext,
	hctx *HandlerRegContext) (*request.AuthorizedContext, error) {

	au, err := hctx.Authorizer.Authorize(sctx)
	if err != nil {
		return nil, err
	}

	baseCtx := makeBaseRequestContext(ctx, sctx, hctx)
	baseCtx.Lctx["user_id"] = au.User.ID
	baseCtx.Lctx["email"] = au.User.Email

	return &request.AuthorizedContext{
		BaseContext:       *baseCtx,
		AuthenticatedUser: *au,
	}, nil
}
