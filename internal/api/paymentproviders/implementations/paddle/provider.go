package paddle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
	"github.com/pkg/errors"
)

const (
	// ProviderName is the identifier used in webhook URLs and stored
	// event rows.
	ProviderName = "paddle"

	defaultAPIRoot = "https://api.paddle.com"
)

type paddle struct {
	apiRoot string
	apiKey  string

	httpClient *http.Client
	log        logutil.Log
}

var _ paymentprovider.Provider = &paddle{}

// NewProvider builds a Paddle API client from config. It fails fast
// when PADDLE_API_KEY isn't set: a misconfigured client would only
// surface as auth errors deep inside checkout.
func NewProvider(log logutil.Log, cfg config.Config) (paymentprovider.Provider, error) {
	apiKey := cfg.GetString("PADDLE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("no PADDLE_API_KEY in config")
	}

	apiRoot := cfg.GetString("PADDLE_API_URL")
	if apiRoot == "" {
		apiRoot = defaultAPIRoot
	}

	return &paddle{
		apiRoot: apiRoot,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		log: log,
	}, nil
}

func (p paddle) Name() string {
	return ProviderName
}

func (p *paddle) SetBaseURL(u string) error {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return errors.Wrapf(err, "failed to parse url %q", u)
	}

	p.apiRoot = parsedURL.String()
	return nil
}

type apiError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

type customerResponse struct {
	Data  *customerData `json:"data"`
	Error *apiError     `json:"error"`
}

type customerRequest struct {
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}

func (p paddle) CreateCustomer(ctx context.Context, email string) (*paymentprovider.Customer, error) {
	return p.sendCustomerRequest(ctx, http.MethodPost, "/customers", customerRequest{Email: email})
}

func (p paddle) GetCustomer(ctx context.Context, cust string) (*paymentprovider.Customer, error) {
	return p.sendCustomerRequest(ctx, http.MethodGet, fmt.Sprintf("/customers/%s", cust), nil)
}

func (p paddle) UpdateCustomer(ctx context.Context, cust string,
	payload paymentprovider.CustomerUpdatePayload) (*paymentprovider.Customer, error) {

	req := customerRequest{
		Email:  payload.Email,
		Status: string(payload.Status),
	}
	return p.sendCustomerRequest(ctx, http.MethodPatch, fmt.Sprintf("/customers/%s", cust), req)
}

func (p paddle) sendCustomerRequest(ctx context.Context, method, path string,
	body interface{}) (*paymentprovider.Customer, error) {

	var bodyReader *bytes.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
		bodyReader = bytes.NewReader(bodyJSON)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, p.apiRoot+path, bodyReader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s request to %s", method, path)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s request to %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, paymentprovider.ErrNotFound
	}

	var cr customerResponse
	if err = json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response of %s request to %s", method, path)
	}

	if cr.Error != nil {
		return nil, errors.Errorf("%s request to %s failed: %s: %s",
			method, path, cr.Error.Code, cr.Error.Detail)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("%s request to %s failed with status %d",
			method, path, resp.StatusCode)
	}
	if cr.Data == nil {
		return nil, errors.Errorf("%s request to %s returned no customer", method, path)
	}

	return &paymentprovider.Customer{
		ID:     cr.Data.ID,
		Email:  cr.Data.Email,
		Status: paymentprovider.CustomerStatus(cr.Data.Status),
	}, nil
}
