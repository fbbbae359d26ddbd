package billingevent

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"

	"github.com/formlytics/formlytics-api/internal/api/apierrors"
	"github.com/formlytics/formlytics-api/internal/api/endpointutil"
	"github.com/formlytics/formlytics-api/internal/api/transportutil"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/formlytics/formlytics-api/pkg/api/request"
	"github.com/pkg/errors"
)

type handleEventRequest struct {
	Wc   *WebhookContext
	Body request.Body
}

func decodeHandleEventRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req handleEventRequest
	if err := transportutil.DecodeRequest(&req, r); err != nil {
		return nil, errors.Wrapf(apierrors.ErrBadRequest, "can't decode request: %s", err)
	}

	return &req, nil
}

func makeHandleEventEndpoint(svc Service, log logutil.Log) endpoint.Endpoint {
	return func(ctx context.Context, reqObj interface{}) (interface{}, error) {
		if err := endpointutil.Error(ctx); err != nil {
			log.Warnf("Error occurred during request context creation: %s", err)
			return transportutil.MakeErrorResponse(transportutil.MakeError(err)), nil
		}

		rc := endpointutil.RequestContext(ctx).(*request.AnonymousContext)
		req := reqObj.(*handleEventRequest)
		req.Wc.FillLogContext(rc.Lctx)

		ack, err := svc.HandleEvent(rc, req.Wc, req.Body)
		if err != nil {
			if apierrors.IsErrorLikeResult(err) {
				return transportutil.MakeErrorLikeResponse(err), nil
			}

			rc.Log.Warnf("Processing of billing event request failed: %s", err)
			return transportutil.MakeErrorResponse(transportutil.MakeError(err)), nil
		}

		return transportutil.MakeOKResponse(ack), nil
	}
}

func RegisterHandlers(svc Service, regCtx *transportutil.HandlerRegContext) {
	hctx := endpointutil.HandlerRegContext{
		Authorizer: regCtx.Authorizer,
		Log:        regCtx.Log,
		ErrTracker: regCtx.ErrTracker,
		Cfg:        regCtx.Cfg,
		DB:         regCtx.DB,
	}

	handler := httptransport.NewServer(
		makeHandleEventEndpoint(svc, regCtx.Log),
		decodeHandleEventRequest,
		transportutil.EncodeResponse,
		httptransport.ServerBefore(transportutil.StoreHTTPRequestToContext,
			transportutil.MakeStoreAnonymousRequestContext(hctx)),
		httptransport.ServerAfter(transportutil.FinalizeSession),
		httptransport.ServerFinalizer(transportutil.FinalizeRequest),
		httptransport.ServerErrorEncoder(transportutil.EncodeError),
	)
	regCtx.Router.Methods(http.MethodPost).Path("/v1/billing/{provider}/events").Handler(handler)
}
