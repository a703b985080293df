package auth

import "time"

// NewTestJWTService creates a JWT service with a fixed signing key, token
// lifetime, and injectable time source. It exists so tests can exercise
// expiry and skew behavior deterministically; production code should use
// NewJWTService.
func NewTestJWTService(
	secret string,
	tokenLifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}

	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: tokenLifetime,
		timeFunc:      timeFunc,
		clockSkew:     2 * time.Minute,
	}
}
