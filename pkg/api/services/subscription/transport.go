package subscription

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
)

func makeGetEndpoint(svc Service, log logutil.Log) endpoint.Endpoint {
	return func(ctx context.Context, reqObj interface{}) (interface{}, error) {
		if err := endpointutil.Error(ctx); err != nil {
			log.Warnf("Error occurred during request context creation: %s", err)
			return transportutil.MakeErrorResponse(transportutil.MakeError(err)), nil
		}

		rc := endpointutil.RequestContext(ctx).(*request.AuthorizedContext)

		info, err := svc.Get(rc)
		if err != nil {
			if apierrors.IsErrorLikeResult(err) {
				return transportutil.MakeErrorLikeResponse(err), nil
			}

			rc.Log.Warnf("Processing of subscription request failed: %s", err)
			return transportutil.MakeErrorResponse(transportutil.MakeError(err)), nil
		}

		return transportutil.MakeOKResponse(info), nil
	}
}

func decodeGetRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
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
		makeGetEndpoint(svc, regCtx.Log),
		decodeGetRequest,
		transportutil.EncodeResponse,
		httptransport.ServerBefore(transportutil.StoreHTTPRequestToContext,
			transportutil.MakeStoreAuthorizedRequestContext(hctx)),
		httptransport.ServerAfter(transportutil.FinalizeSession),
		httptransport.ServerFinalizer(transportutil.FinalizeRequest),
		httptransport.ServerErrorEncoder(transportutil.EncodeError),
	)
	regCtx.Router.Methods(http.MethodGet).Path("/v1/subscription").Handler(handler)
}
