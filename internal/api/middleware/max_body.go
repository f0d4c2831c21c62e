package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/networkbrain/brain/internal/api/response"
)

// BodyLimitRecorder counts requests rejected by MaxBody. observability.APIMetrics implements it.
type BodyLimitRecorder interface {
	RecordRequestBodyTooLarge(ctx context.Context)
}

// MaxBody caps request bodies at maxBytes and answers 413 when a client sends more.
// A declared Content-Length over the limit is rejected before the handler runs. Bodies without
// one (chunked uploads) are read through http.MaxBytesReader; for POST, PUT and PATCH the
// handler's response is held back so it can be replaced by the 413 once the limit trips.
// maxBytes <= 0 disables the limit. recorder may be nil.
func MaxBody(maxBytes int64, recorder BodyLimitRecorder) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	reject := func(w http.ResponseWriter, r *http.Request) {
		if recorder != nil {
			recorder.RecordRequestBodyTooLarge(r.Context())
		}

		response.RespondError(w, http.StatusRequestEntityTooLarge,
			"Request Entity Too Large", "request body exceeds maximum allowed size")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				reject(w, r)

				return
			}

			body := &limitedBody{ReadCloser: http.MaxBytesReader(w, r.Body, maxBytes)}
			r.Body = body

			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)

				return
			}

			held := &heldResponse{ResponseWriter: w}
			next.ServeHTTP(held, r)

			if body.exceeded {
				reject(w, r)

				return
			}

			held.flush()
		})
	}
}

// limitedBody remembers whether the wrapped MaxBytesReader ever hit its limit, even when the
// handler swallowed the error.
type limitedBody struct {
	io.ReadCloser

	exceeded bool
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.exceeded = true
	}

	return n, err //nolint:wrapcheck // io.EOF must reach callers unwrapped
}

func (b *limitedBody) Close() error {
	return b.ReadCloser.Close() //nolint:wrapcheck // passthrough
}

// heldResponse buffers a handler's status and body until MaxBody decides to send them.
type heldResponse struct {
	http.ResponseWriter

	status int
	body   bytes.Buffer
}

func (h *heldResponse) WriteHeader(code int) {
	if h.status == 0 {
		h.status = code
	}
}

func (h *heldResponse) Write(p []byte) (int, error) {
	return h.body.Write(p) //nolint:wrapcheck // bytes.Buffer writes do not fail
}

func (h *heldResponse) flush() {
	if h.status != 0 {
		h.ResponseWriter.WriteHeader(h.status)
	}

	_, _ = h.body.WriteTo(h.ResponseWriter)
}
