package providers

import "time"

const (
	// shutdownTimeout bounds graceful shutdown of each handle.
	shutdownTimeout = 30 * time.Second

	// redisDialTimeout bounds the startup ping of the redis cart backend.
	redisDialTimeout = 5 * time.Second
)
