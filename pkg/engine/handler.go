package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/httputil"
	"github.com/getmockd/restmock/pkg/route"
	"github.com/getmockd/restmock/pkg/stateful"
)

// MaxRequestBodySize is the maximum allowed request body size (10MB).
const MaxRequestBodySize = 10 << 20

// resourceHandler serves one canonical route of a resource.
func (s *Server) resourceHandler(res *stateful.Resource, detail bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httputil.WriteDetail(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body too large, limit is %d bytes", maxErr.Limit))
				return
			}
			httputil.WriteBadRequest(w, err.Error())
			return
		}

		resp := res.HandleRequest(&stateful.Request{
			Method: r.Method,
			Detail: detail,
			PK:     mux.Vars(r)[route.PKParam],
			Query:  r.URL.Query(),
			Body:   body,
		})
		s.writeResponse(w, resp)
	})
}

// readBody decodes a JSON or form encoded body. Other content types, and an
// empty JSON body, decode to an empty object.
func readBody(w http.ResponseWriter, r *http.Request) (any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return map[string]any{}, nil
		}
		var body any
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return body, nil

	case ct == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return formBody(r.PostForm), nil
	}
	return map[string]any{}, nil
}

// formBody turns form values into a body object. A key given once maps to
// its string, a repeated key to the list of its values.
func formBody(form url.Values) map[string]any {
	body := make(map[string]any, len(form))
	for k, vs := range form {
		if len(vs) == 1 {
			body[k] = vs[0]
			continue
		}
		list := make([]any, len(vs))
		for i, v := range vs {
			list[i] = v
		}
		body[k] = list
	}
	return body
}

// writeResponse writes resp: headers first, then a JSON, file or text body.
// A 204 never carries a body. A nil resp writes an empty 200.
func (s *Server) writeResponse(w http.ResponseWriter, resp *config.ResponseSpec) {
	if resp == nil {
		resp = &config.ResponseSpec{}
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	code := resp.StatusCode()
	switch {
	case code == http.StatusNoContent || code == http.StatusNotModified:
		w.WriteHeader(code)
	case resp.JSON != nil:
		httputil.WriteJSON(w, code, resp.JSON)
	case resp.File != "":
		s.sendFile(w, resp.File, code)
	case resp.Text != nil:
		httputil.WriteText(w, code, *resp.Text)
	default:
		w.WriteHeader(code)
	}
}

// sendFile streams the file at name with the given status. Relative names
// resolve against the working directory.
func (s *Server) sendFile(w http.ResponseWriter, name string, code int) {
	p, err := filepath.Abs(name)
	if err != nil {
		p = name
	}

	f, err := os.Open(p)
	if err != nil {
		s.log.Error("send file failed", "file", p, "error", err)
		httputil.WriteNotFound(w, "Not Found")
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.log.Error("send file failed, not a regular file", "file", p)
		httputil.WriteNotFound(w, "Not Found")
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType(f))
	}
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(code)
	if _, err := io.Copy(w, f); err != nil {
		s.log.Warn("send file interrupted", "file", p, "error", err)
	}
}

// contentType guesses the type from the extension, then from the content.
// f is rewound afterwards.
func contentType(f *os.File) string {
	if ct := mime.TypeByExtension(filepath.Ext(f.Name())); ct != "" {
		return ct
	}
	mt, err := mimetype.DetectReader(f)
	_, _ = f.Seek(0, io.SeekStart)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
