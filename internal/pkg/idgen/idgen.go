// Package idgen builds short human readable identifiers such as
// MEMLX2K9Q1A7F3B for members and PAYLX2K9Q1AZ0QD for payments.
package idgen

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	MemberPrefix  = "MEM"
	PaymentPrefix = "PAY"

	alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixSize = 4
)

// Generate returns prefix + base-36 millisecond timestamp + 4 random base-36
// characters, upper-cased. Uniqueness is enforced by the storage index, not
// here.
func Generate(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 36))
	for i := 0; i < suffixSize; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return strings.ToUpper(b.String())
}
