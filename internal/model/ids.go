package model

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a short random id for which taken reports false.
//
// Ids are 4 lowercase base32 chars (~1M values). On repeated collisions the
// length grows so a crowded list never loops for long.
func NewID(taken func(string) bool) (string, error) {
	for _, ln := range []int{4, 5, 6, 8} {
		attempts := 10
		if ln == 4 {
			attempts = 100
		}
		for i := 0; i < attempts; i++ {
			id, err := randomID(ln)
			if err != nil {
				return "", err
			}
			if taken == nil || !taken(id) {
				return id, nil
			}
		}
	}
	return "", fmt.Errorf("no free task id after repeated collisions")
}

func randomID(n int) (string, error) {
	b := make([]byte, (n*5+7)/8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random id: %w", err)
	}
	return strings.ToLower(idEncoding.EncodeToString(b))[:n], nil
}

// IDTaken reports whether id is used by any open or done task.
func IDTaken(open OpenTasks, done DoneTasks) func(string) bool {
	return func(id string) bool {
		return open.IndexOf(id) >= 0 || done.IndexOf(id) >= 0
	}
}
