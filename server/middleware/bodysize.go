package middleware

import (
	"net/http"

	"github.com/kbukum/meetscribe/util"
)

const defaultMaxBodySize = 2 * 1024 * 1024 // 2MB

// BodySizeLimit returns middleware that restricts the request body to the given
// size string (e.g. "2MB", "512KB"). Reads past the limit fail with
// *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
