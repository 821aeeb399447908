package middleware

import "github.com/gin-gonic/gin"

// subjectKey stores the verified token subject.
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the subject of the verified bearer token.
// It returns false when the request was not authenticated, including when
// token verification is disabled.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(subjectKey)); exists {
		subject, ok := v.(string)
		return subject, ok
	}
	subject, ok := c.Request.Context().Value(subjectKey).(string)
	return subject, ok
}
