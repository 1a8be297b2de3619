package order

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// NewID generates an order id of the form ORD-<YYYYMMDD>-<8 uppercase hex>.
// The suffix is read from crypto/rand, so collisions within a day are
// possible only at ~1/16^8 probability; the database primary key catches
// that case and the service regenerates.
func NewID(now time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("ORD-%s-%08X", now.UTC().Format("20060102"), binary.BigEndian.Uint32(b[:]))
}
