package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	inFlightTTL       = 30 * time.Second
	inFlightMarker    = "in-flight"
)

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	Fingerprint string          `json:"fingerprint"`
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	Headers     http.Header     `json:"headers"`
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a POST is retried
// with the same Idempotency-Key, so a retried contribution or payment is not
// settled twice. A retry that arrives while the first request is still
// running gets 409. Keys are scoped to the request path, and reusing a key
// with a different body gets 422. With a nil client the middleware is a
// pass-through.
func IdempotencyMiddleware(redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + c.Request.URL.Path + ":" + key
		fingerprint := requestFingerprint(body)

		claimed, err := redisClient.SetNX(ctx, cacheKey, inFlightMarker, inFlightTTL).Result()
		if err != nil {
			// Redis error - proceed without idempotency.
			c.Next()
			return
		}

		if !claimed {
			cached, err := getCachedResponse(ctx, redisClient, cacheKey)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request with this idempotency key is in progress"})
				return
			}
			if cached.Fingerprint != fingerprint {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "idempotency key was used with a different request"})
				return
			}
			for k, v := range cached.Headers {
				for _, val := range v {
					c.Header(k, val)
				}
			}
			c.Header("Idempotent-Replay", "true")
			c.Data(cached.StatusCode, cached.Headers.Get("Content-Type"), cached.Body)
			c.Abort()
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Server errors are not replayed; release the key so the client can retry.
		storeCtx := context.WithoutCancel(ctx)
		if c.Writer.Status() >= http.StatusInternalServerError {
			_ = redisClient.Del(storeCtx, cacheKey).Err()
			return
		}
		response := cachedResponse{
			Fingerprint: fingerprint,
			StatusCode:  c.Writer.Status(),
			Body:        w.body.Bytes(),
			Headers:     extractResponseHeaders(c),
		}
		_ = setCachedResponse(storeCtx, redisClient, cacheKey, &response, idempotencyTTL)
	}
}

// getCachedResponse retrieves a completed response from Redis.
func getCachedResponse(ctx context.Context, client *redis.Client, key string) (*cachedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

// setCachedResponse stores a response in Redis.
func setCachedResponse(ctx context.Context, client *redis.Client, key string, response *cachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}

// requestFingerprint identifies a request body so a reused key can be told apart.
func requestFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
