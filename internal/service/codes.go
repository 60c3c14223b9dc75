package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Code generation is opportunistic: a prefix, a millisecond timestamp and a
// random suffix. Codes are assigned once and never regenerated; collisions
// are not retried.

// GenerateListingCode builds a human-readable listing code from the owning
// industry's prefix.
func GenerateListingCode(industryPrefix string) string {
	prefix := strings.ToUpper(industryPrefix)
	if prefix == "" {
		prefix = "LST"
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().UnixMilli(), rand.Intn(10000))
}

// GenerateRequestCode builds a human-readable request code.
func GenerateRequestCode() string {
	return fmt.Sprintf("REQ-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
