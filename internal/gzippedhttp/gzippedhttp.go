// Package gzippedhttp provides middleware for transparent gzip handling:
// decompressing gzip-encoded request bodies and compressing response
// bodies for clients that accept it.
package gzippedhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	},
}

type compressedResponseWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

// WriteHeader marks successful responses as gzip-encoded before the
// status line goes out.
func (w *compressedResponseWriter) WriteHeader(statusCode int) {
	if statusCode < 300 {
		w.Header().Set("Content-Encoding", "gzip")
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *compressedResponseWriter) Write(p []byte) (int, error) {
	return w.zw.Write(p)
}

// CompressResponse compresses the response body when the client's
// Accept-Encoding allows gzip.
func CompressResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(response, request)
			return
		}

		zw := gzipWriterPool.Get().(*gzip.Writer)
		zw.Reset(response)
		defer func() {
			_ = zw.Close()
			gzipWriterPool.Put(zw)
		}()

		h.ServeHTTP(&compressedResponseWriter{ResponseWriter: response, zw: zw}, request)
	}

	return http.HandlerFunc(middleware)
}

// DecompressRequest replaces a gzip-encoded request body with a
// decompressing reader before the handler sees it.
func DecompressRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(request.Body)
			if err != nil {
				response.WriteHeader(http.StatusInternalServerError)
				return
			}
			defer zr.Close()
			request.Body = io.NopCloser(zr)
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
