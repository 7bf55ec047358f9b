package core

import (
	"encoding/base64"
	"time"
)

// TimestampLayout is the provider's YYYYMMDDHHmmss format
const TimestampLayout = "20060102150405"

// EastAfricaTime is the fixed UTC+3 offset the provider's timestamps are read in
var EastAfricaTime = time.FixedZone("EAT", 3*60*60)

// Timestamp formats t in East Africa Time
func Timestamp(t time.Time) string {
	return t.In(EastAfricaTime).Format(TimestampLayout)
}

// Password is base64(shortcode + passkey + timestamp)
func Password(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}
