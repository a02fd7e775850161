package circuit

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Canonical returns the canonical text encoding of c: the qubit count followed
// by every gate's String form, one per line. Segment labels are not part of
// the encoding.
func (c Circuit) Canonical() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "qubits %d\n", c.numQubits)
	for _, g := range c.gates {
		sb.WriteString(g.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Fingerprint returns the hex SHA3-256 digest of the canonical encoding.
// Two circuits with the same gate sequence share a fingerprint.
func (c Circuit) Fingerprint() string {
	sum := sha3.Sum256([]byte(c.Canonical()))
	return hex.EncodeToString(sum[:])
}
