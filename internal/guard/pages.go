package guard

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gigmarket_backend/internal/common"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the exported front end from WEB_ROOT for requests no API route matched.
// With an empty root every unmatched request gets the JSON 404.
func PageHandler(webRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if webRoot == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) ||
			strings.HasPrefix(c.Request.URL.Path, "/api/") {
			common.RespondWithError(c, common.ErrNotFound.WithDetails("The requested endpoint does not exist."))
			return
		}
		if file, ok := resolvePage(webRoot, c.Request.URL.Path); ok {
			c.File(file)
			return
		}
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Page not found."))
	}
}

// resolvePage maps a URL path to a file under root: the file itself, its index.html,
// or the path with an .html suffix.
func resolvePage(root, urlPath string) (string, bool) {
	clean := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+urlPath)))
	candidates := []string{clean, filepath.Join(clean, "index.html"), clean + ".html"}
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
