// Package dedup computes the content hash that identifies one
// (post, institution) pair across runs.
//
// The hash input truncates text to its first 100 characters. That keeps the
// key stable when trailing text varies slightly between refetches, but a
// whitespace or rendering change inside the prefix still shifts the hash;
// known fragility, accepted as-is.
package dedup

import (
	"crypto/md5"
	"encoding/hex"
)

// textPrefixLen is the number of leading characters of text that take part
// in the hash.
const textPrefixLen = 100

// Hash returns the dedup key for a (post, bank) pair as a 32-character hex
// string: a 128-bit digest of postID + "_" + bankName + "_" + prefix(text).
func Hash(postID, bankName, text string) string {
	content := postID + "_" + bankName + "_" + prefix(text, textPrefixLen)
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// IsDuplicate reports whether hash has been emitted before.
func IsDuplicate(hash string, seen map[string]struct{}) bool {
	_, ok := seen[hash]
	return ok
}

// prefix returns the first n characters (not bytes) of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
