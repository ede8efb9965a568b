package codec

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxTokenSize bounds tokens read from users, files and requests.
	DefaultMaxTokenSize = 64 * 1024
	// EnvMaxTokenSize is the environment variable that overrides the default.
	EnvMaxTokenSize = "CIRCUIT_MAX_TOKEN_SIZE"
)

var (
	ErrTokenTooLarge = errors.New("token exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("token contains invalid UTF-8 sequences")
)

// Sanitize rejects oversized or non-UTF-8 input and strips control
// characters other than newline, tab and carriage return. It does not check
// that the result decodes.
func Sanitize(input string) (string, error) {
	limit := maxTokenSize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrTokenTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxTokenSize() int {
	if val := os.Getenv(EnvMaxTokenSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxTokenSize
}
