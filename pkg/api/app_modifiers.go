package app

import (
	"github.com/formlytics/formlytics-api/internal/api/paymentproviders"
)

type Modifier func(a *App)

func SetPaymentProviderFactory(pf paymentproviders.Factory) Modifier {
	return func(a *App) {
		a.paymentProviderFactory = pf
	}
}
