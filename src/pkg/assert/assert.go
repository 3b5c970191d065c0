package assert

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Assert panics with the caller's location when condition is false.
// The optional args are a format string followed by its operands.
func Assert(condition bool, args ...any) {
	if condition {
		return
	}

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "unknown"
		line = 0
	}

	where := fmt.Sprintf("%s:%d", filepath.Base(file), line)
	if len(args) == 0 {
		panic("assertion failed at " + where)
	}

	format, ok := args[0].(string)
	if !ok {
		panic(fmt.Sprintf("assertion failed at %s: %v", where, args))
	}

	panic(fmt.Sprintf("assertion failed at %s: %s", where, fmt.Sprintf(format, args[1:]...)))
}

func NoError(err error) {
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		panic(fmt.Sprintf("assertion failed at %s:%d: unexpected error: %v", filepath.Base(file), line, err))
	}
}
