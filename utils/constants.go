// File: utils/constants.go
package utils

import "time"

// AuthSessionPrefix is the prefix used for Redis auth session keys.
const AuthSessionPrefix = "authSession:"

// AuthSessionTTL is the time-to-live for auth sessions and their tokens.
const AuthSessionTTL = 72 * time.Hour

// MarketSessionPrefix is the prefix used for cached market session snapshots.
const MarketSessionPrefix = "marketSession:"
