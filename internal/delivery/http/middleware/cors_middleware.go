package middleware

import "net/http"

type CORSMiddleware struct {
	allowedOrigins map[string]struct{}
}

// NewCORSMiddleware allows the given origins; with none, any origin is allowed.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &CORSMiddleware{allowedOrigins: allowed}
}

// AllowOrigin reports whether origin may call the API or open a WebSocket.
func (m *CORSMiddleware) AllowOrigin(origin string) bool {
	if len(m.allowedOrigins) == 0 || origin == "" {
		return true
	}
	_, ok := m.allowedOrigins[origin]
	return ok
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		switch {
		case len(m.allowedOrigins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case m.AllowOrigin(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, req)
	})
}
