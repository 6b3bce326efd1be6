package attach

import (
	"strconv"
	"strings"

	"github.com/lotdrop/lotdrop/pkg/domain"
)

// Decode splits an original filename into an owner key candidate, an
// optional sequence number, and the filename to store. The grammar is
// "<ownerKey>_<sequence>_<storedName>" with two degraded shapes:
//
//   - "<ownerKey>_<sequence><suffix>" where the digit run is immediately
//     followed by a non-empty suffix containing no further underscore
//     (typically just the extension). The sequence is kept and the original
//     filename is stored unchanged.
//   - anything else keeps the original filename and carries no sequence.
//
// Decode never fails; callers treat a missing sequence as the signal to
// fall back to attaching the file to the auction itself.
func Decode(filename string) domain.DecodedName {
	decoded := domain.DecodedName{
		OwnerKey:       filename,
		StoredFilename: filename,
	}

	prefix, remainder, found := strings.Cut(filename, "_")
	if !found {
		return decoded
	}
	decoded.OwnerKey = prefix

	digits := leadingDigits(remainder)
	if digits == "" {
		return decoded
	}
	sequence, err := strconv.Atoi(digits)
	if err != nil {
		// Digit run too long to represent; treat as unparsed.
		return decoded
	}

	tail := remainder[len(digits):]
	switch {
	case strings.HasPrefix(tail, "_") && len(tail) > 1:
		// Full shape: strip the "<ownerKey>_<sequence>_" decoration.
		decoded.Sequence = &sequence
		decoded.StoredFilename = tail[1:]
	case tail != "" && !strings.Contains(tail, "_"):
		// Sequence with extension only; keep the original name.
		decoded.Sequence = &sequence
	}
	// An empty tail, an empty post-digit name segment, or a suffix carrying
	// further underscores all leave the sequence unset.

	return decoded
}

// leadingDigits returns the run of ASCII decimal digits at the start of s.
func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
