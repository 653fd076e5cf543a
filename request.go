package listfix

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// repairRequest is the fragment to repair, decoded from a request body or a websocket message.
type repairRequest struct {
	HTML   string `json:"html"`
	Strict bool   `json:"strict"`

	// json is set when the request body was JSON; the response is JSON as well.
	json bool
}

// readRepairRequest decodes the body of r by its content type: a JSON object, form data with the
// fragment in the "html" field, or the raw fragment for any other type.
func readRepairRequest(w http.ResponseWriter, r *http.Request, limit int64) (*repairRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	req := &repairRequest{}

	switch ct {
	case "application/json":
		req.json = true
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, bodyError("decode JSON body", err)
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(limit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, bodyError("parse form", err)
		}
		req.HTML = r.PostFormValue("html")
		req.Strict, _ = strconv.ParseBool(r.PostFormValue("strict"))
	default:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, bodyError("read body", err)
		}
		req.HTML = string(b)
	}

	return req, nil
}

// bodyError maps a body read error to 413 when the body exceeds the limit and to 400 otherwise.
func bodyError(op string, err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return withStatus(http.StatusRequestEntityTooLarge, fmt.Errorf("%s: body larger than %d bytes", op, mbe.Limit))
	}
	return withStatus(http.StatusBadRequest, fmt.Errorf("%s: %w", op, err))
}

// acceptsJSON reports whether the Accept header of r names application/json.
func acceptsJSON(r *http.Request) bool {
	for _, v := range r.Header.Values("Accept") {
		for _, part := range strings.Split(v, ",") {
			mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err == nil && mt == "application/json" {
				return true
			}
		}
	}
	return false
}

func isJSONError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withStatus(0, fmt.Errorf("encode JSON response: %w", err))
	}
	return nil
}
