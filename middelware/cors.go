package middelware

import (
	"fieldfuze-scheduler/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods  = "GET, POST, OPTIONS"
	corsExposeHeaders = RequestIDHeader + ", Content-Disposition"
	corsMaxAge        = "86400"
)

var corsAllowHeaders = strings.Join([]string{
	"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", RequestIDHeader,
}, ", ")

// CORSMiddleware answers cross-origin requests from the dispatch front end
type CORSMiddleware struct {
	allowAll bool
	exact    map[string]bool
	// suffixes holds ".example.com" for every "*.example.com" entry
	suffixes []string
}

// NewCORSMiddleware indexes the configured origins
func NewCORSMiddleware(cfg *models.Config) *CORSMiddleware {
	m := &CORSMiddleware{exact: make(map[string]bool)}
	for _, origin := range cfg.CORSOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		switch {
		case origin == "*":
			m.allowAll = true
		case strings.HasPrefix(origin, "*."):
			m.suffixes = append(m.suffixes, origin[1:])
		case origin != "":
			m.exact[origin] = true
		}
	}
	return m
}

// CORS returns a gin.HandlerFunc for handling CORS. Credentials are only
// allowed for an origin that is echoed back.
func (m *CORSMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		c.Header("Vary", "Origin")

		if origin != "" && m.isOriginAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isOriginAllowed matches exact origins and "*.domain" entries. The wildcard
// form matches subdomains on any scheme or port, never the bare domain.
func (m *CORSMiddleware) isOriginAllowed(origin string) bool {
	if m.allowAll || m.exact[origin] {
		return true
	}
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	for _, suffix := range m.suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
