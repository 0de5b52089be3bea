package match

import (
	"bytes"
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	s, err := NewSealer(testKey)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	return s
}

func TestSealerVerify(t *testing.T) {
	s := newTestSealer(t)

	t.Run("SealsValidRecord", func(t *testing.T) {
		verified, err := s.Verify(testRecord())
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !verified.IntegrityVerified {
			t.Error("expected IntegrityVerified=true")
		}
		if len(verified.Digest.Value) != 32 {
			t.Errorf("expected 32-byte digest, got %d", len(verified.Digest.Value))
		}
		if verified.Digest.Algorithm != "sha256" {
			t.Errorf("unexpected algorithm %q", verified.Digest.Algorithm)
		}
		if len(verified.Seal) != 32 {
			t.Errorf("expected 32-byte seal, got %d", len(verified.Seal))
		}
		if !strings.HasPrefix(verified.Proof, "MV1-") {
			t.Errorf("unexpected proof format: %q", verified.Proof)
		}
		t.Logf("proof=%s share=%s", verified.Proof, verified.ShareCode)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := s.Verify(testRecord())
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		b, err := s.Verify(testRecord())
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !bytes.Equal(a.Digest.Value, b.Digest.Value) {
			t.Error("digest not deterministic")
		}
		if !bytes.Equal(a.Seal, b.Seal) {
			t.Error("seal not deterministic")
		}
		if a.Proof != b.Proof || a.ShareCode != b.ShareCode {
			t.Error("proof/share code not deterministic")
		}
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		input := testRecord()
		verified, err := s.Verify(input)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		verified.Events[0].Actor = "changed"
		verified.Events[2].Extra["color"] = "red"
		if input.Events[0].Actor != "Keane" || input.Events[2].Extra["color"] != "yellow" {
			t.Error("Verify shares event storage with its input")
		}
	})

	t.Run("RejectsInvalidRecord", func(t *testing.T) {
		r := testRecord()
		r.Events[1].SimulatedTimeMs = -5
		if _, err := s.Verify(r); err == nil {
			t.Fatal("expected validation error for negative timestamp")
		}
	})

	t.Run("IdentityBinding", func(t *testing.T) {
		a, err := s.Verify(testRecord())
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		other := testRecord()
		other.ParticipantID = "player-bob"
		b, err := s.Verify(other)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if bytes.Equal(a.Seal, b.Seal) {
			t.Error("seal did not change with participant identity")
		}
	})
}

func TestSealerReverify(t *testing.T) {
	s := newTestSealer(t)

	seal := func(t *testing.T) *VerifiedMatchRecord {
		t.Helper()
		verified, err := s.Verify(testRecord())
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		return verified
	}

	t.Run("UnmodifiedStaysValid", func(t *testing.T) {
		rec := seal(t)
		finding := s.Reverify(rec)
		if !finding.StillValid {
			t.Fatalf("unmodified record reported invalid: %v", finding.Details)
		}
		if len(finding.Details) != 0 {
			t.Errorf("expected empty details, got %v", finding.Details)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		rec := seal(t)
		for i := 0; i < 3; i++ {
			finding := s.Reverify(rec)
			if !finding.StillValid || len(finding.Details) != 0 {
				t.Fatalf("reverify #%d changed its answer: %+v", i, finding)
			}
		}
	})

	t.Run("InflatedScoreReported", func(t *testing.T) {
		// Scenario: 2 home goals, 1 away goal, then away score bumped to 2.
		rec := seal(t)
		rec.AwayScore = 2
		finding := s.Reverify(rec)
		if finding.StillValid {
			t.Fatal("score inflation went undetected")
		}
		if !containsSubstring(finding.Details, "away score mismatch") {
			t.Errorf("expected a score-mismatch detail, got %v", finding.Details)
		}
	})

	t.Run("EventMutationsReported", func(t *testing.T) {
		mutations := map[string]func(*VerifiedMatchRecord){
			"kind":  func(r *VerifiedMatchRecord) { r.Events[1].Kind = EventShot },
			"team":  func(r *VerifiedMatchRecord) { r.Events[3].Team = TeamAway },
			"actor": func(r *VerifiedMatchRecord) { r.Events[0].Actor = "Impostor" },
			"time":  func(r *VerifiedMatchRecord) { r.Events[0].SimulatedTimeMs += 1000 },
			"removed": func(r *VerifiedMatchRecord) {
				r.Events = append([]MatchEvent{}, r.Events[1:]...)
			},
		}
		for name, mutate := range mutations {
			rec := seal(t)
			mutate(rec)
			if finding := s.Reverify(rec); finding.StillValid {
				t.Errorf("event mutation %q went undetected", name)
			}
		}
	})

	t.Run("ReorderedEventsReported", func(t *testing.T) {
		rec := seal(t)
		rec.Events[0], rec.Events[1] = rec.Events[1], rec.Events[0]
		finding := s.Reverify(rec)
		if finding.StillValid {
			t.Fatal("event reordering went undetected")
		}
		if !containsSubstring(finding.Details, "out of order") {
			t.Errorf("expected an ordering detail, got %v", finding.Details)
		}
	})

	t.Run("ReattributionReported", func(t *testing.T) {
		// The digest ignores nothing, so swap the participant AND restore
		// scores/events; only the seal can catch pure re-attribution of
		// an otherwise intact digest. Simulate by recomputing the digest
		// under the new participant but keeping the old seal.
		rec := seal(t)
		other := testRecord()
		other.ParticipantID = "player-mallory"
		reattributed, err := s.Verify(other)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		reattributed.Seal = rec.Seal
		reattributed.Proof = rec.Proof
		finding := s.Reverify(reattributed)
		if finding.StillValid {
			t.Fatal("identity substitution went undetected")
		}
		if !containsSubstring(finding.Details, "seal mismatch") {
			t.Errorf("expected a seal-mismatch detail, got %v", finding.Details)
		}
	})

	t.Run("DifferentKeyFailsSeal", func(t *testing.T) {
		rec := seal(t)
		otherSealer, err := NewSealer([]byte("another-key-entirely-0123456789a"))
		if err != nil {
			t.Fatalf("NewSealer failed: %v", err)
		}
		finding := otherSealer.Reverify(rec)
		if finding.StillValid {
			t.Fatal("seal verified under the wrong key")
		}
	})
}

func containsSubstring(details []string, substr string) bool {
	for _, d := range details {
		if strings.Contains(d, substr) {
			return true
		}
	}
	return false
}
