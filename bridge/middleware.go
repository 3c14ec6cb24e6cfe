package bridge

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// requestLogger writes basic request info using structured logging,
// adapted from cmd/xchainserver/server/middleware.go's RequestLogger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Info("incoming bridge request")
		next.ServeHTTP(w, r)
	})
}

// jsonHeaders sets Content-Type application/json before the handler runs;
// error responses written with http.Error replace it with text/plain.
func jsonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
