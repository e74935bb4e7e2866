// Package gate performs the synchronous, client-side syntax checks on a
// candidate server address. It never touches the network.
package gate

import (
	"net/url"

	"github.com/catdvtools/connect/internal/domain"
)

// Check validates the raw address text. The branches run in order and the
// first failure wins; a passing check returns a Result with an empty reason.
//
// The empty-string branch predates the parse branch so that an empty field
// gets its own wording rather than the generic parse failure.
func Check(text string) domain.Result {
	if text == "" {
		return domain.Fail(domain.KindSyntaxInvalid, domain.ReasonProvideURL)
	}

	u, err := url.Parse(text)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return domain.Fail(domain.KindSyntaxInvalid, domain.ReasonEnterURL)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.Fail(domain.KindSyntaxInvalid, domain.ReasonHTTPURL)
	}

	return domain.OK()
}
