package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/52poke/kura/internal/storage"
)

const modeHeader = "X-Kura-Mode"

// Handler exposes list/read/write over HTTP:
//
//	GET /files?dir=D&filter=F   JSON array of names
//	GET /files/{name...}        file contents
//	PUT /files/{name...}        replace file contents
//	GET /healthz, GET /readyz
//
// With StrictReads set, a missing file is a 404 and a failed read a 502
// instead of an empty 200.
type Handler struct {
	Storage      *storage.Storage
	Log          logrus.FieldLogger
	MaxBodyBytes int64
	StrictReads  bool
	mux          *http.ServeMux
}

func NewHandler(s *storage.Storage, log logrus.FieldLogger, maxBodyBytes int64) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{
		Storage:      s,
		Log:          log,
		MaxBodyBytes: maxBodyBytes,
		mux:          http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /files", h.list)
	h.mux.HandleFunc("GET /files/{name...}", h.read)
	h.mux.HandleFunc("PUT /files/{name...}", h.write)
	h.mux.HandleFunc("/healthz", ok)
	h.mux.HandleFunc("/readyz", ok)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(modeHeader, h.Storage.Mode().String())
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dir := CleanName(q.Get("dir"))
	if dir == "" {
		dir = "."
	}

	names := h.Storage.List(r.Context(), dir, q.Get("filter"))
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(names); err != nil {
		h.Log.WithError(err).Warn("encode list response")
	}
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) {
	name := CleanName(r.PathValue("name"))
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	var contents string
	if h.StrictReads {
		var err error
		contents, err = h.Storage.Backend().Read(r.Context(), name)
		if err != nil {
			if errors.Is(err, storage.ErrNotExist) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			h.Log.WithFields(logrus.Fields{"path": name}).WithError(err).Error("error reading file")
			http.Error(w, "read failed", http.StatusBadGateway)
			return
		}
	} else {
		contents = h.Storage.Read(r.Context(), name)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, contents)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request) {
	name := CleanName(r.PathValue("name"))
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	body := r.Body
	if h.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}

	if !h.Storage.Write(r.Context(), name, string(data)) {
		http.Error(w, "write failed", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// CleanName normalizes a request path into a relative storage name. Dot
// segments cannot climb above the root.
func CleanName(raw string) string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	return strings.TrimPrefix(cleaned, "/")
}
