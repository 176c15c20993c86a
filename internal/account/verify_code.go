package account

import "math/rand"

const verifyCodeLength = 6

// NewVerifyCode returns a 6-character code drawn uniformly from the
// digits 0-9, duplicates allowed. The 10^6 space is an accepted
// weakness: this is a usability code proving control of a mailbox, not
// a security token, and it is not meant to be strengthened.
func NewVerifyCode() string {
	var code [verifyCodeLength]byte
	for i := range code {
		code[i] = '0' + byte(rand.Intn(10))
	}
	return string(code[:])
}
