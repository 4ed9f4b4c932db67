// Package auth provides HMAC report authentication for the disku server.
//
// Agents and the server share a single secret (DISKU_REPORT_SECRET); the
// agent signs the raw request body with HMAC-SHA256 and the server verifies
// before handing the report to the API layer. When no secret is configured
// the middleware is not installed and reports are accepted unsigned, which
// matches the trust model of a closed monitoring network.
package auth

import (
	"bytes"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// maxBodySize bounds report bodies read for verification. A report is a few
// KB of JSON; anything near the cap is not a disku agent.
const maxBodySize = 1 << 20

// Middleware returns an http middleware that rejects requests whose body
// signature does not verify under secret. The body is re-buffered so
// downstream handlers read it normally.
func Middleware(secret []byte, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
			r.Body.Close()
			if err != nil {
				http.Error(w, "cannot read request body", http.StatusBadRequest)
				return
			}
			if len(body) > maxBodySize {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			if err := Verify(secret, body, r.Header.Get(SignatureHeader)); err != nil {
				log.WithError(err).WithField("remote", r.RemoteAddr).Warn("rejected unsigned report")
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
