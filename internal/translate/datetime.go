package translate

import (
	"strings"
	"time"
)

// upstreamTimeLayout is the eKomKassa timestamp format. The API always
// reports Moscow local time (UTC+3, no DST) without saying so.
const upstreamTimeLayout = "02.01.2006 15:04:05"

const upstreamDateLayout = "02.01.2006"

// isoLayout renders millisecond precision with an explicit offset, so the
// result always ends in "+03:00".
const isoLayout = "2006-01-02T15:04:05.000-07:00"

// moscowZoneLabel suffixes zone-annotated output for consumers that expect
// a named zone next to the offset.
const moscowZoneLabel = "[Europe/Moscow]"

var moscowZone = time.FixedZone("MSK", 3*60*60)

// NormalizeTimestamp converts an upstream "dd.mm.yyyy HH:MM:SS" timestamp to
// ISO-8601 with millisecond precision and an explicit +03:00 offset.
//
// Unparseable input is returned verbatim. A malformed timestamp must never
// fail the surrounding request; the caller gets whatever the upstream sent.
func NormalizeTimestamp(s string) string {
	t, err := time.ParseInLocation(upstreamTimeLayout, strings.TrimSpace(s), moscowZone)
	if err != nil {
		return s
	}
	return t.Format(isoLayout)
}

// NormalizeTimestampZoned is NormalizeTimestamp plus a zone label suffix.
// Gateway responses use the plain form; this variant is kept for consumers
// that need a named zone next to the offset. Leniency is the same:
// unparseable input passes through verbatim, without the suffix.
func NormalizeTimestampZoned(s string) string {
	t, err := time.ParseInLocation(upstreamTimeLayout, strings.TrimSpace(s), moscowZone)
	if err != nil {
		return s
	}
	return t.Format(isoLayout) + moscowZoneLabel
}

// UpstreamTimestamp renders a time in the upstream's expected local format.
// This is the inverse of NormalizeTimestamp, used for outbound payloads.
func UpstreamTimestamp(t time.Time) string {
	return t.In(moscowZone).Format(upstreamTimeLayout)
}

// UpstreamDate renders only the date part, used for correction base dates.
func UpstreamDate(t time.Time) string {
	return t.In(moscowZone).Format(upstreamDateLayout)
}
