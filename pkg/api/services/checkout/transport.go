package checkout

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

func makeEnsureCustomerEndpoint(svc Service, log logutil.Log) endpoint.Endpoint {
	return func(ctx context.Context, reqObj interface{}) (interface{}, error) {
		if err := endpointutil.Error(ctx); err != nil {
			log.Warnf("Error occurred during request context creation: %s", err)
			return transportutil.MakeErrorResponse(transportutil.MakeError(err)), nil
		}

		rc := endpointutil.RequestContext(ctx).(*request.AuthorizedContext)

		customer, err := svc.EnsureCustomer(rc)
		if err != nil {
			if apierrors.IsErrorLikeResult(err) {
				return transportutil.MakeErrorLikeResponse(err), nil
			}

			rc.Log.Warnf("Processing of checkout customer request failed: %s", err)
			return transportutil.MakeErrorResponse(transportutil.MakeError(err)), nil
		}

		return transportutil.MakeOKResponse(customer), nil
	}
}

func decodeEnsureCustomerRequest(_ context.Context, r *http.Request) (interface{}, error) {
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
		makeEnsureCustomerEndpoint(svc, regCtx.Log),
		decodeEnsureCustomerRequest,
		transportutil.EncodeResponse,
		httptransport.ServerBefore(transportutil.StoreHTTPRequestToContext,
			transportutil.MakeStoreAuthorizedRequestContext(hctx)),
		httptransport.ServerAfter(transportutil.FinalizeSession),
		httptransport.ServerFinalizer(transportutil.FinalizeRequest),
		httptransport.ServerErrorEncoder(transportutil.EncodeError),
	)
	regCtx.Router.Methods(http.MethodPost).Path("/v1/checkout/customer").Handler(handler)
}
