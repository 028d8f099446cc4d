package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mrcfield/internal/errs"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errs.Sentinel(errs.KindInvalidInput, "bad request")

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return raw, nil
}

// decodeJSON leaves dst untouched for an empty body.
func decodeJSON(raw []byte, dst any) error {
	if dst == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", errBadRequest, err)
	}
	return nil
}

// decodeWrite decodes a write request into dst and resolves the version the
// client based its edit on. If-Match wins over an expectedVersion body field;
// zero means the client sent neither.
func decodeWrite(w http.ResponseWriter, r *http.Request, dst any) (int64, error) {
	raw, err := readBody(w, r)
	if err != nil {
		return 0, err
	}
	if err := decodeJSON(raw, dst); err != nil {
		return 0, err
	}

	if header := strings.TrimSpace(r.Header.Get("If-Match")); header != "" {
		return parseVersion(header)
	}

	var field struct {
		ExpectedVersion *int64 `json:"expectedVersion"`
	}
	if err := decodeJSON(raw, &field); err != nil {
		return 0, err
	}
	if field.ExpectedVersion == nil {
		return 0, nil
	}
	if *field.ExpectedVersion <= 0 {
		return 0, fmt.Errorf("%w: expectedVersion must be positive", errBadRequest)
	}
	return *field.ExpectedVersion, nil
}

func parseVersion(header string) (int64, error) {
	v := strings.Trim(strings.TrimPrefix(header, "W/"), `"`)
	version, err := strconv.ParseInt(v, 10, 64)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("%w: If-Match must carry a positive version, got %q", errBadRequest, header)
	}
	return version, nil
}

// pathIDs reads uuid path parameters and stops at the first bad one.
type pathIDs struct {
	r   *http.Request
	err error
}

func (p *pathIDs) get(name string) string {
	if p.err != nil {
		return ""
	}
	raw := chi.URLParam(p.r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s %q is not a valid id", errBadRequest, name, raw)
		return ""
	}
	return id.String()
}
