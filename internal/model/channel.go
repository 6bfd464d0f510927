package model

import "time"

// Channel is a persistent communication thread linking exactly two parties.
// The pair is stored canonically ordered so one channel exists per unordered
// pair regardless of which side initiated provisioning.
type Channel struct {
	ID        string    `json:"id"`
	PartyA    string    `json:"party_a"`
	PartyB    string    `json:"party_b"`
	CreatedAt time.Time `json:"created_at"`
}

// CanonicalPair orders two party identifiers lexicographically so that
// {a, b} and {b, a} address the same channel.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
