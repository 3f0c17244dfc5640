// Package methodoverride lets clients that can only emit GET and POST
// (HTML forms, some proxies) issue PUT and DELETE requests by tunneling
// the real method through a POST. The override is taken from the
// X-HTTP-Method-Override header or the _method query parameter; only
// PUT and DELETE are accepted, anything else is ignored.
package methodoverride

import (
	"net/http"
	"strings"
)

// Header is the header carrying the tunneled method.
const Header = "X-HTTP-Method-Override"

// QueryParam is the query parameter carrying the tunneled method.
const QueryParam = "_method"

// Override rewrites the method of a POST request before routing when a
// valid override is present.
func Override(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodPost {
			if method := overrideFor(request); method != "" {
				request.Method = method
			}
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

func overrideFor(request *http.Request) string {
	candidate := request.Header.Get(Header)
	if candidate == "" {
		candidate = request.URL.Query().Get(QueryParam)
	}

	switch strings.ToUpper(candidate) {
	case http.MethodPut:
		return http.MethodPut
	case http.MethodDelete:
		return http.MethodDelete
	}

	return ""
}
