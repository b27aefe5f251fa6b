package response

import "github.com/gin-gonic/gin"

// OK writes the payload as-is with a 200 status. The answer endpoint's
// success shape is part of the widget contract, so no envelope is added.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(200, payload)
}

// Fail writes the error contract: {"error": message} with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
