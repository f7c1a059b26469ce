package inputs

import "strings"

// Optional holds a value that may be absent.
//
// Blank pipeline inputs are turned into absent Optionals once, when the
// inputs are read, so later stages never re-check strings for whitespace.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional wrapping v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the wrapped value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrZero returns the wrapped value, or the zero value of T when absent.
func (o Optional[T]) OrZero() T {
	return o.value
}

// OrElse returns the wrapped value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

// NonBlank returns Some(s) unless s is empty or whitespace-only.
func NonBlank(s string) Optional[string] {
	if strings.TrimSpace(s) == "" {
		return None[string]()
	}
	return Some(s)
}

// Lines splits s on newlines, trims every line and drops the empty ones.
// The result is absent when no line survives.
func Lines(s string) Optional[[]string] {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return None[[]string]()
	}
	return Some(lines)
}
