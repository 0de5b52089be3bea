package match

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// canonicalVersion is baked into the byte stream so a future layout
// change cannot collide with records sealed under the old layout.
const canonicalVersion byte = 1

// Canonicalize serializes a record into a fixed byte sequence:
// byte-identical for semantically identical records, different for any
// change to scores, events, participant binding, or duration. Fields are
// written in a fixed order, strings as length-prefixed UTF-8, integers
// big-endian, so locale and in-memory representation never leak in.
func Canonicalize(r *MatchRecord) []byte {
	var buf bytes.Buffer
	buf.WriteByte(canonicalVersion)

	writeString(&buf, r.ID)
	writeString(&buf, r.HomeTeamName)
	writeString(&buf, r.AwayTeamName)
	writeInt(&buf, int64(r.DurationMinutes))
	writeInt(&buf, int64(r.HomeScore))
	writeInt(&buf, int64(r.AwayScore))
	writeString(&buf, r.ParticipantID)
	writeString(&buf, string(r.Outcome))

	writeInt(&buf, int64(len(r.Events)))
	for _, ev := range r.Events {
		writeString(&buf, string(ev.Kind))
		writeInt(&buf, ev.SimulatedTimeMs)
		writeString(&buf, string(ev.Team))
		writeString(&buf, ev.Actor)
		writeString(&buf, ev.Description)
		writeExtra(&buf, ev.Extra)
	}
	return buf.Bytes()
}

// writeExtra encodes kind-specific fields with sorted keys so map
// iteration order never reaches the digest.
func writeExtra(buf *bytes.Buffer, extra map[string]string) {
	writeInt(buf, int64(len(extra)))
	if len(extra) == 0 {
		return
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeString(buf, k)
		writeString(buf, extra[k])
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeInt(buf, int64(len(s)))
	buf.WriteString(s)
}

func writeInt(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}
