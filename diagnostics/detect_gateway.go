package diagnostics

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// detachmentSignatures are literal note substrings left behind when a stored
// payment credential detaches from its gateway customer, typically after a
// site/environment duplication. Matching is case-insensitive.
var detachmentSignatures = []string{
	"previously used",
	"attach it to a customer first",
	"payment_method_attached_to_another_customer",
	"no such paymentmethod",
	"the customer does not have a payment method",
}

// NoteMatch is one signature hit used as evidence.
type NoteMatch struct {
	NoteID    int    `json:"note_id"`
	Signature string `json:"signature"`
	Excerpt   string `json:"excerpt"`
	CreatedAt string `json:"created_at,omitempty"`
}

// PatternAnalysis is the text-pattern detector's structured output, exposed
// on the timeline result so hosts can render evidence alongside findings.
type PatternAnalysis struct {
	DetachmentSuspected  bool        `json:"detachment_suspected"`
	Matches              []NoteMatch `json:"matches,omitempty"`
	PotentialOccurrences int         `json:"potential_occurrences"`
	NotesScanned         int         `json:"notes_scanned"`
	EnvironmentChecked   bool        `json:"environment_checked"`
	DuplicateSite        bool        `json:"duplicate_site"`
	EnvironmentType      string      `json:"environment_type,omitempty"`
}

func matchSignature(content string) (string, bool) {
	lowered := strings.ToLower(content)
	for _, sig := range detachmentSignatures {
		if strings.Contains(lowered, sig) {
			return sig, true
		}
	}
	return "", false
}

func excerpt(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= 140 {
		return content
	}
	// Cut on a rune boundary so multi-byte note text stays valid UTF-8.
	cut := 140
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "…"
}

// scannedNote pairs a note with where it came from, for the two scan passes.
type scannedNote struct {
	note        Note
	orderID     int
	orderStatus string
}

// recentNotes gathers subscription notes plus renewal-order notes, newest
// first, capped at the configured scan limit.
func (e *Engine) recentNotes(snap *snapshot) []scannedNote {
	var all []scannedNote
	for _, note := range snap.subNotes {
		all = append(all, scannedNote{note: note})
	}
	for _, order := range snap.orders {
		if order.Relation != RelationRenewal {
			continue
		}
		for _, note := range snap.orderNotes[order.ID] {
			all = append(all, scannedNote{note: note, orderID: order.ID, orderStatus: order.Status})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return NormalizeInstant(all[i].note.CreatedAt).After(NormalizeInstant(all[j].note.CreatedAt))
	})
	if len(all) > e.opts.NoteScanLimit {
		all = all[:e.opts.NoteScanLimit]
	}
	return all
}

// analyzeGatewayPattern runs the signature scan and environment checks once
// per run; the detector and the timeline result both consume it.
func (e *Engine) analyzeGatewayPattern(snap *snapshot) *PatternAnalysis {
	analysis := &PatternAnalysis{
		EnvironmentChecked: snap.envOK,
		DuplicateSite:      snap.dupSite,
		EnvironmentType:    snap.envType,
	}

	scanned := e.recentNotes(snap)
	analysis.NotesScanned = len(scanned)
	// Direct evidence: detachment language in the subscription's own notes.
	for _, sn := range scanned {
		if sn.orderID != 0 {
			continue
		}
		sig, ok := matchSignature(sn.note.Content)
		if !ok {
			continue
		}
		analysis.DetachmentSuspected = true
		match := NoteMatch{
			NoteID:    sn.note.ID,
			Signature: sig,
			Excerpt:   excerpt(sn.note.Content),
		}
		if sn.note.CreatedAt != nil {
			match.CreatedAt = CanonicalTimestamp(NormalizeInstant(sn.note.CreatedAt))
		}
		analysis.Matches = append(analysis.Matches, match)
	}

	// Indirect evidence: failed or cancelled renewal orders whose own notes
	// carry the signatures, counted when a stored payment-method reference
	// exists.
	if snap.sub.PaymentTokenID != "" {
		for _, sn := range scanned {
			if sn.orderID == 0 {
				continue
			}
			if sn.orderStatus != OrderFailed && sn.orderStatus != OrderCancelled {
				continue
			}
			if _, ok := matchSignature(sn.note.Content); ok {
				analysis.PotentialOccurrences++
			}
		}
	}

	return analysis
}

// detectGatewayDetachment converts the pattern analysis into findings. The
// direct and potential variants are independent: one reads the
// subscription's notes, the other the failed renewals' notes.
func (e *Engine) detectGatewayDetachment(snap *snapshot) []Discrepancy {
	analysis := e.analyzeGatewayPattern(snap)
	var found []Discrepancy

	if analysis.DetachmentSuspected {
		evidence := analysis.Matches
		if len(evidence) > 5 {
			evidence = evidence[:5]
		}
		found = append(found, Discrepancy{
			Type:     "detached_payment_method",
			Category: CategoryGatewayCommunication,
			Severity: SeverityCritical,
			Description: fmt.Sprintf("Notes contain %d gateway message(s) indicating the stored payment method is detached from its customer.",
				len(analysis.Matches)),
			Recommendation: "Ask the customer to re-enter their payment method; the stored token can no longer be charged.",
			Details: map[string]any{
				"match_count":   len(analysis.Matches),
				"matched_notes": evidence,
				"notes_scanned": analysis.NotesScanned,
			},
		})
	}
	if analysis.PotentialOccurrences > 0 {
		found = append(found, Discrepancy{
			Type:     "potential_detached_payment_method",
			Category: CategoryGatewayCommunication,
			Severity: SeverityMedium,
			Description: fmt.Sprintf("A payment method is on file but %d failed or cancelled renewal(s) carry detachment language in their notes.",
				analysis.PotentialOccurrences),
			Recommendation: "Verify the stored payment method still resolves at the gateway.",
			Details: map[string]any{
				"occurrence_count": analysis.PotentialOccurrences,
			},
		})
	}

	if analysis.EnvironmentChecked {
		if analysis.DuplicateSite {
			found = append(found, Discrepancy{
				Type:           "duplicate_site_detected",
				Category:       CategoryConfiguration,
				Severity:       SeverityWarning,
				Description:    "The duplicate-site flag is active; cloned environments are the usual cause of detached payment methods.",
				Recommendation: "Confirm which site owns the gateway credentials before any renewal runs here.",
			})
		}
		if analysis.EnvironmentType != "" && analysis.EnvironmentType != "production" {
			found = append(found, Discrepancy{
				Type:     "non_production_environment",
				Category: CategoryConfiguration,
				Severity: SeverityWarning,
				Description: fmt.Sprintf("This site reports environment type %q; gateways commonly refuse recurring charges outside production.",
					analysis.EnvironmentType),
				Recommendation: "Ignore renewal failures here, or point the analysis at the production site.",
				Details: map[string]any{
					"environment_type": analysis.EnvironmentType,
				},
			})
		}
	}

	return found
}
