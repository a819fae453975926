// Package marshal converts caller-convention arguments into facility values.
//
// Caller text is a fixed-width buffer whose length travels separately and
// which is never NUL terminated. [Bounded] copies at most min(length, max)
// bytes of it into a fresh NUL-terminated buffer; longer names are truncated
// silently. Option codes and flags are converted without validation by
// [Select].
package marshal
