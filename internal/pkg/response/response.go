package response

import "github.com/gin-gonic/gin"

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// InternalErrorMessage is the only text a 5xx response ever carries.
const InternalErrorMessage = "Something went wrong"

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"status": StatusSuccess,
		"data":   data,
	})
}

func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status":  StatusSuccess,
		"message": message,
	})
}

// Fail reports a client-side failure (4xx).
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"status":  StatusFail,
		"message": message,
	})
}

func ValidationFailed(c *gin.Context, statusCode int, errors []string) {
	c.JSON(statusCode, gin.H{
		"status":  StatusFail,
		"message": "Validation error",
		"errors":  errors,
	})
}

// AbortFail is Fail for middleware: it stops the handler chain.
func AbortFail(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"status":  StatusFail,
		"message": message,
	})
}

// Internal hides err from the client and records it on the context for ErrorLogger.
func Internal(c *gin.Context, statusCode int, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(statusCode, gin.H{
		"status":  StatusError,
		"message": InternalErrorMessage,
	})
}
