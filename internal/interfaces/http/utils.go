package httpinterface

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/shareswap/poold/internal/core/domain"
)

// maxBodySize caps the size of request bodies.
const maxBodySize = 1 << 20

type httpError struct {
	ErrorStr string `json:"error"`
}

func (e httpError) Error() string {
	return e.ErrorStr
}

func newError(e string) httpError {
	return httpError{ErrorStr: e}
}

var errInvalidRequest = newError("invalid request")

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errInvalidRequest
	}
	return body, nil
}

func unmarshalBody(body []byte, into interface{}) error {
	if err := json.Unmarshal(body, into); err != nil {
		return errInvalidRequest
	}
	return nil
}

func writeError(w http.ResponseWriter, e error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(newError(e.Error()))
	w.Write(buf)
}

func writeSuccess(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(data)
	w.Write(buf)
}

// pageFromQuery returns the page requested via the page and size query
// params, or nil if none is given.
func pageFromQuery(r *http.Request) *domain.Page {
	query := r.URL.Query()
	if query.Get("page") == "" && query.Get("size") == "" {
		return nil
	}
	number, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))
	page := domain.NewPage(number, size)
	return &page
}
