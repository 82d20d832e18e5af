package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// idempotencyRecorder tees the response body so it can be stored for replay.
type idempotencyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *idempotencyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST carrying an
// Idempotency-Key header is retried. Responses are recorded after the first
// successful (non-5xx) execution; requests without the header pass through.
func Idempotency(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())

		var status int
		var body []byte
		err := db.QueryRow(c.Request.Context(),
			`SELECT response_status, response_body FROM idempotency_keys WHERE key_id = $1`,
			key).Scan(&status, &body)
		if err == nil {
			logger.Info("Idempotency hit, returning recorded response", slog.String("key", key))
			c.Header("X-Idempotency-Hit", "true")
			c.Data(status, "application/json", body)
			c.Abort()
			return
		}

		recorder := &idempotencyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		resStatus := c.Writer.Status()
		if resStatus >= http.StatusInternalServerError {
			// Transient failures must stay retryable.
			return
		}

		_, insertErr := db.Exec(c.Request.Context(),
			`INSERT INTO idempotency_keys (key_id, response_status, response_body) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			key, resStatus, recorder.body.Bytes())
		if insertErr != nil {
			logger.Error("Failed to save idempotency key", slog.String("key", key), slog.String("error", insertErr.Error()))
		}
	}
}
