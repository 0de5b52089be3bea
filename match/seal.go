package match

import (
	"bytes"
	"fmt"

	"goMatchServer/config"
	"goMatchServer/crypto"
)

// Sealer binds match records to participants with a keyed digest. It is
// an explicit value owned by the caller; construct one with NewSealer
// and pass it where needed.
type Sealer struct {
	key []byte
}

// NewSealer creates a sealer from a seal key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("seal key is required")
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Sealer{key: k}, nil
}

// Verify validates a record, then seals it: canonical bytes -> digest ->
// participant-bound seal -> proof string and share code. The input record
// is copied, never mutated or retained.
func (s *Sealer) Verify(r *MatchRecord) (*VerifiedMatchRecord, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	record := cloneRecord(r)
	canonical := Canonicalize(record)
	digest := crypto.Digest(canonical)
	seal := crypto.Seal(s.key, digest, record.ParticipantID)

	return &VerifiedMatchRecord{
		MatchRecord: *record,
		Digest: Digest{
			Value:     digest,
			Algorithm: config.DigestAlgorithm,
		},
		Seal:              seal,
		Proof:             crypto.EncodeProof(seal),
		ShareCode:         crypto.ShareCode(digest, record.ParticipantID),
		IntegrityVerified: true,
	}, nil
}

// Reverify recomputes digest and seal from the record's current field
// values and compares against the stored ones. On mismatch it narrows
// down the category (score vs event log vs seal/identity) by recomputing
// intermediate values, so the UI can say more than "tampered".
// Idempotent: an unmodified record always yields StillValid with no details.
func (s *Sealer) Reverify(rec *VerifiedMatchRecord) VerificationFinding {
	finding := VerificationFinding{StillValid: true, Details: []string{}}
	if rec == nil {
		return VerificationFinding{StillValid: false, Details: []string{"record is missing"}}
	}

	if rec.Digest.Algorithm != config.DigestAlgorithm {
		finding.StillValid = false
		finding.Details = append(finding.Details,
			fmt.Sprintf("digest algorithm mismatch: stored %q, expected %q", rec.Digest.Algorithm, config.DigestAlgorithm))
	}

	canonical := Canonicalize(&rec.MatchRecord)
	digest := crypto.Digest(canonical)

	if !bytes.Equal(digest, rec.Digest.Value) {
		finding.StillValid = false
		finding.Details = append(finding.Details, explainDigestMismatch(rec)...)
	} else {
		// Digest intact: a broken seal can only mean the record was
		// re-attributed or sealed under a different key.
		seal := crypto.Seal(s.key, digest, rec.ParticipantID)
		if !crypto.SealEqual(seal, rec.Seal) {
			finding.StillValid = false
			finding.Details = append(finding.Details,
				"seal mismatch: record re-attributed to a different participant or sealed under a different key")
		}
	}

	if finding.StillValid {
		expectedProof := crypto.EncodeProof(rec.Seal)
		if rec.Proof != expectedProof {
			finding.StillValid = false
			finding.Details = append(finding.Details,
				fmt.Sprintf("proof string mismatch: stored %q, recomputed %q", rec.Proof, expectedProof))
		}
	}
	return finding
}

// explainDigestMismatch recomputes intermediate facts to pin down what
// changed before falling back to a generic digest mismatch.
func explainDigestMismatch(rec *VerifiedMatchRecord) []string {
	var details []string

	homeGoals, awayGoals := CountGoals(rec.Events)
	if rec.HomeScore != homeGoals {
		details = append(details,
			fmt.Sprintf("home score mismatch: record claims %d, event log contains %d home goals", rec.HomeScore, homeGoals))
	}
	if rec.AwayScore != awayGoals {
		details = append(details,
			fmt.Sprintf("away score mismatch: record claims %d, event log contains %d away goals", rec.AwayScore, awayGoals))
	}

	prev := int64(0)
	for i, ev := range rec.Events {
		if ev.SimulatedTimeMs < prev {
			details = append(details,
				fmt.Sprintf("event log out of order at index %d: %dms after %dms", i, ev.SimulatedTimeMs, prev))
			break
		}
		prev = ev.SimulatedTimeMs
	}

	if len(details) == 0 {
		details = append(details,
			"digest mismatch: event log or match fields no longer match the sealed record")
	}
	return details
}

func cloneRecord(r *MatchRecord) *MatchRecord {
	out := *r
	if r.Events != nil {
		out.Events = make([]MatchEvent, len(r.Events))
		copy(out.Events, r.Events)
		for i, ev := range r.Events {
			if ev.Extra != nil {
				extra := make(map[string]string, len(ev.Extra))
				for k, v := range ev.Extra {
					extra[k] = v
				}
				out.Events[i].Extra = extra
			}
		}
	}
	return &out
}
