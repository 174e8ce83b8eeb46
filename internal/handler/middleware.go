package handler

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slack_gateway/internal/logger"
	"slack_gateway/internal/verify"
)

// VerifySlackRequest authenticates every request against the signing
// secret and the replay window before any payload parsing happens. Both
// checks are mandatory; either failing rejects the request as
// unauthenticated, logging which check failed.
func VerifySlackRequest(signingSecret string, replayWindow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.GetLogger().Error("failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		// reattach request body for the route handlers
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		timestamp := c.GetHeader(verify.TimestampHeader)
		signature := c.GetHeader(verify.SignatureHeader)

		err = verify.Request(body, timestamp, signature, signingSecret, time.Now(), replayWindow)
		if err != nil {
			logger.GetLogger().Warn("request verification failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("remote_addr", c.ClientIP()))
			c.Set(logger.OutcomeKey, "rejected_unauthenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}

// HandleSlackRetry is a middleware that handles Slack retry requests
func HandleSlackRetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		retryNum := c.GetHeader("X-Slack-Retry-Num")
		retryReason := c.GetHeader("X-Slack-Retry-Reason")

		if retryNum != "" {
			logger.GetLogger().Info("slack retry request",
				zap.String("retry_num", retryNum),
				zap.String("retry_reason", retryReason))
			c.Set(logger.OutcomeKey, "retry_skipped")
			c.String(http.StatusOK, "ok (retry skipped)")
			c.Abort()
			return
		}
		c.Next()
	}
}
