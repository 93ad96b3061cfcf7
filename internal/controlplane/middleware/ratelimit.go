package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

const DefaultRate = "20-S"

// RateLimiter limits requests per client IP. formattedRate uses the limiter
// notation, e.g. "20-S" or "600-M".
func RateLimiter(formattedRate string) (gin.HandlerFunc, error) {
	if formattedRate == "" {
		formattedRate = DefaultRate
	}
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		return nil, err
	}

	lim := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(
		lim,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.PureJSON(http.StatusTooManyRequests, gin.H{
				"code":  "ERR_RATE_LIMITED",
				"error": "rate limit exceeded",
			})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			c.PureJSON(http.StatusInternalServerError, gin.H{
				"code":  "ERR_INTERNAL",
				"error": err.Error(),
			})
		}),
	), nil
}
