package identity

// Option applies a configuration option to the in-memory store.
type Option func(*inMemoryStore)

// WithMaxSize sets how many identities are kept before the oldest is evicted.
// A value <= 0 disables eviction.
func WithMaxSize(maxSize int) Option {
	return func(s *inMemoryStore) {
		s.maxSize = maxSize
	}
}

// WithTokenGenerator replaces the UUID token source.
func WithTokenGenerator(gen func() string) Option {
	return func(s *inMemoryStore) {
		if gen != nil {
			s.newToken = gen
		}
	}
}
