package utils

func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CeilDiv returns a/b rounded up. b must be positive.
func CeilDiv[T unsigned](a, b T) T {
	q := a / b
	if a%b != 0 {
		q++
	}

	return q
}
