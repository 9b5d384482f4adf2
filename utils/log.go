package utils

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func ToZeroLogArray[T fmt.Stringer](arr []T) (ret *zerolog.Array) {
	ret = zerolog.Arr()

	for _, elem := range arr {
		ret = ret.Str(elem.String())
	}

	return ret
}

// LogLevel picks the global log level from the -trace/-debug flags, falling back
// to the TRACE and DEBUG environment variables.
func LogLevel(debug, trace bool) zerolog.Level {
	switch {
	case trace || os.Getenv("TRACE") != "":
		return zerolog.TraceLevel
	case debug || os.Getenv("DEBUG") != "":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
