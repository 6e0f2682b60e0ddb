package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// MaxEventsPerIC is the number of events one IC number may hold across all submissions.
const MaxEventsPerIC = 2

// Rejection reasons for a registration submission.
var (
	ErrICContainsLetters  = errors.New("IC must not contain letters")
	ErrICNotTwelveDigits  = errors.New("IC must be exactly 12 digits")
	ErrIncompleteFields   = errors.New("please complete all fields")
	ErrAlreadyRegistered  = errors.New("IC has already registered")
	ErrEventQuotaExceeded = errors.New("IC can only register for up to 2 events in total")
)

var (
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	icPattern     = regexp.MustCompile(`^\d{12}$`)
)

// RejectionError is a user-facing refusal of a submission.
// errors.Is matches it against its Kind.
type RejectionError struct {
	Kind     error
	Message  string
	EventIDs []string
}

func (e *RejectionError) Error() string { return e.Message }

func (e *RejectionError) Unwrap() error { return e.Kind }

func reject(kind error) *RejectionError {
	return &RejectionError{Kind: kind, Message: kind.Error()}
}

// NewAlreadyRegisteredError names the events the IC number already holds.
func NewAlreadyRegisteredError(eventIDs, eventNames []string) *RejectionError {
	return &RejectionError{
		Kind:     ErrAlreadyRegistered,
		Message:  "IC has already registered for: " + strings.Join(eventNames, ", "),
		EventIDs: eventIDs,
	}
}

// NormalizeIC strips all hyphens from an IC number.
func NormalizeIC(raw string) string {
	return strings.ReplaceAll(raw, "-", "")
}

// NormalizePhone strips all hyphens from a phone number.
func NormalizePhone(raw string) string {
	return strings.ReplaceAll(raw, "-", "")
}

// ValidateICNumber normalizes raw and checks it is exactly 12 digits with no letters.
// The letters check runs first so "12345678901a" reports letters, not length.
func ValidateICNumber(raw string) (string, error) {
	ic := NormalizeIC(raw)
	if letterPattern.MatchString(ic) {
		return "", reject(ErrICContainsLetters)
	}
	if len(ic) != 12 || !icPattern.MatchString(ic) {
		return "", reject(ErrICNotTwelveDigits)
	}
	return ic, nil
}

// CheckSubmission runs the checks that need no stored data and returns the
// normalized submission. The first failing check wins.
func CheckSubmission(sub Submission) (Submission, error) {
	ic, err := ValidateICNumber(sub.ICNumber)
	if err != nil {
		return Submission{}, err
	}
	sub.ICNumber = ic
	sub.PhoneNumber = NormalizePhone(sub.PhoneNumber)
	sub.EventIDs = uniqueIDs(sub.EventIDs)
	if sub.PhoneNumber == "" || len(sub.EventIDs) == 0 || sub.Party == nil {
		return Submission{}, reject(ErrIncompleteFields)
	}
	return sub, nil
}

// CheckEventQuota compares the selection against the events the IC number
// already holds. Duplicates are reported before the total-count rule: when any
// selected event is already held, their IDs are returned with ErrAlreadyRegistered
// and the caller resolves names for the message.
func CheckEventQuota(selected, existing []string) ([]string, error) {
	held := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		held[id] = struct{}{}
	}
	var dupes []string
	for _, id := range selected {
		if _, ok := held[id]; ok {
			dupes = append(dupes, id)
		}
	}
	if len(dupes) > 0 {
		return dupes, ErrAlreadyRegistered
	}
	if len(existing)+len(selected) > MaxEventsPerIC {
		return nil, reject(ErrEventQuotaExceeded)
	}
	return nil, nil
}

// BuildRegistrations returns one registration per selected event, all sharing
// the submission's IC number, phone and party.
func BuildRegistrations(sub Submission, now time.Time) []*Registration {
	regs := make([]*Registration, 0, len(sub.EventIDs))
	for _, eventID := range sub.EventIDs {
		regs = append(regs, NewRegistration(sub.ICNumber, sub.PhoneNumber, sub.Party.ID, eventID, now, now))
	}
	return regs
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
