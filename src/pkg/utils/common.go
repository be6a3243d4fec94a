package utils

// Must panics on err. Use it only where failure means the program cannot
// start, such as building the logger.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}
