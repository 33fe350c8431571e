package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// Class messages rendered as EM.
const (
	EMOK          = "success"
	EMMissing     = "missing value"
	EMDuplicated  = "duplicated value"
	EMUnknown     = "unknown error, please check server logs"
	EMInvalid     = "invalid request"
	EMNotFound    = "not found record"
	EMNotVerified = "You must verified first"
	EMNotPermit   = "You are not allowed"
)

func emFor(ec int) string {
	switch ec {
	case apierr.ECOK:
		return EMOK
	case apierr.ECMissing:
		return EMMissing
	case apierr.ECDuplicated:
		return EMDuplicated
	case apierr.ECInvalid:
		return EMInvalid
	case apierr.ECNotFound:
		return EMNotFound
	case apierr.ECNotVerified:
		return EMNotVerified
	case apierr.ECNotPermit:
		return EMNotPermit
	default:
		return EMUnknown
	}
}

func envelope(ec int, payload gin.H) gin.H {
	out := gin.H{"EC": ec, "EM": emFor(ec)}
	for k, v := range payload {
		if k == "EC" || k == "EM" {
			continue
		}
		out[k] = v
	}
	return out
}

func RespondOK(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusOK, envelope(apierr.ECOK, payload))
}

func RespondCreated(c *gin.Context, payload gin.H) {
	c.JSON(http.StatusCreated, envelope(apierr.ECOK, payload))
}

// RespondError renders err as an envelope. Errors that are not *apierr.Error
// are logged and rendered as EC=3 without their cause.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.EC == apierr.ECUnknown {
		if log != nil {
			log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		}
		c.JSON(http.StatusInternalServerError, envelope(apierr.ECUnknown, nil))
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, envelope(ae.EC, gin.H{"message": ae.Error()}))
}

// Abort is RespondError for middleware.
func Abort(c *gin.Context, log *logger.Logger, err error) {
	RespondError(c, log, err)
	c.Abort()
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, envelope(apierr.ECNotFound, gin.H{"message": msg}))
}
