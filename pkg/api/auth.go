package api

import "github.com/gin-gonic/gin"

// extractAuthor extracts the caller identity from proxy headers.
// Priority: X-Forwarded-User (oauth2-proxy) > X-Forwarded-Email (oauth2-proxy) >
// X-Remote-User (kube-rbac-proxy) > "api-client"
func extractAuthor(c *gin.Context) string {
	for _, header := range []string{"X-Forwarded-User", "X-Forwarded-Email", "X-Remote-User"} {
		if v := c.GetHeader(header); v != "" {
			return v
		}
	}
	return "api-client"
}
