// Package testserver provides the echo server used by the integration tests
// and by the serve command.
package testserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultToken is the bearer token the server expects by default
const DefaultToken = "secret_token"

// Config configures the echo server
type Config struct {
	// Token is the expected bearer token. Empty selects DefaultToken.
	Token string

	// LogRequests enables chi's request logger
	LogRequests bool
}

// New returns the echo server handler.
//
//	GET  /api/data            {"message":"GET request received"}
//	GET  /api/search          echoes name, page (default 1) and limit (default 10)
//	POST /api/post/data       echoes a JSON body
//	POST /api/post/data/form  echoes a form body, 400 when empty
//
// Every route requires "Authorization: Bearer <token>" and answers 401
// otherwise. Unknown routes answer 404.
func New(cfg Config) http.Handler {
	token := cfg.Token
	if token == "" {
		token = DefaultToken
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(jsonContentType)
	r.Use(requireBearer(token))

	r.Get("/api/data", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "GET request received"})
	})
	r.Get("/api/search", search)
	r.Post("/api/post/data", echoJSON)
	r.Post("/api/post/data/form", echoForm)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found", "route": r.RequestURI})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found", "route": r.RequestURI})
	})
	return r
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func requireBearer(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if _, ok := q["name"]; !ok {
		name = "Guest"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "GET request received",
		"name":    name,
		"page":    intParam(q.Get("page"), q.Has("page"), 1),
		"limit":   intParam(q.Get("limit"), q.Has("limit"), 10),
	})
}

// intParam mirrors a lenient integer cast: present but unparsable values
// become 0.
func intParam(value string, present bool, def int) int {
	if !present {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func echoJSON(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/json" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid content type"})
		return
	}

	var input interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	writeJSON(w, http.StatusOK, input)
}

func echoForm(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid content type"})
		return
	}
	if err := r.ParseForm(); err != nil || len(r.PostForm) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data provided"})
		return
	}

	echoed := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		echoed[key] = r.PostForm.Get(key)
	}
	writeJSON(w, http.StatusOK, echoed)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
