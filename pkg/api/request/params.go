package request

import "github.com/formlytics/formlytics-api/internal/shared/logutil"

// Body is the raw request body, passed through the transport without
// JSON decoding.
type Body []byte

type ProviderName struct {
	Provider string `request:",urlPart,"`
}

func (p ProviderName) FillLogContext(lctx logutil.Context) {
	lctx["provider"] = p.Provider
}
