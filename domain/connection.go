package domain

// ConnectionID identifies one live duplex connection for its whole lifetime.
type ConnectionID string
