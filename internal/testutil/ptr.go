package testutil

// Ptr returns a pointer to v. Used to build optional fields in test fixtures.
func Ptr[T any](v T) *T {
	return &v
}
