package paymentproviders

import (
	"fmt"
	"time"

	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/implementations"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/implementations/paddle"
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders/paymentprovider"
	"github.com/formlytics/formlytics-api/internal/shared/config"
	"github.com/formlytics/formlytics-api/internal/shared/logutil"
)

type Factory interface {
	Build(name string) (paymentprovider.Provider, error)
}

type BasicFactory struct {
	log logutil.Log
	cfg config.Config
}

func NewBasicFactory(log logutil.Log, cfg config.Config) *BasicFactory {
	return &BasicFactory{
		log: log,
		cfg: cfg,
	}
}

func (f BasicFactory) buildImpl(name string) (paymentprovider.Provider, error) {
	switch name {
	case paddle.ProviderName:
		return paddle.NewProvider(f.log, f.cfg)
	}

	return nil, fmt.Errorf("invalid payment provider name %q", name)
}

func (f BasicFactory) Build(name string) (paymentprovider.Provider, error) {
	p, err := f.buildImpl(name)
	if err != nil {
		return nil, err
	}

	return implementations.NewStableProvider(p, time.Second*30, 3), nil
}
