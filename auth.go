// Package tokentally provides the TokenTally Go SDK for reporting AI API
// usage to the TokenTally accounting service.
package tokentally

import (
	"net/http"

	"github.com/tokentally/tokentally-go/headers"
)

type apiKeyAuth struct {
	key SecretKey
}

func (a apiKeyAuth) Apply(req *http.Request) {
	if a.key == "" {
		return
	}
	req.Header.Set(headers.APIKey, a.key.String())
}
