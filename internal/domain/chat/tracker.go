package chat

import (
	"strings"
	"unicode/utf8"

	"aistore-server/services/storefront-api/internal/domain/catalog"
)

// Tracker derives conversation state by replaying the full turn history
// against a Policy. Infer is a pure function: the same history and catalog
// always produce the same state, so retries and page reloads are harmless.
type Tracker struct {
	policy Policy
}

func NewTracker(policy Policy) *Tracker {
	return &Tracker{policy: policy}
}

// Infer replays turns oldest-first and returns the resulting state.
//
// Product mentions are scanned on every turn regardless of role, and each
// later mention overwrites the earlier one, so the most recently discussed
// product is always the active one. Assistant turns drive stage transitions
// through their trigger phrases; customer turns fill delivery fields while
// an order is being collected.
func (t *Tracker) Infer(turns []Turn, products []catalog.Product) State {
	state := State{Stage: StageGreeting}

	for _, turn := range turns {
		lower := strings.ToLower(turn.Content)

		mentioned := false
		for i := range products {
			if products[i].Name == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(products[i].Name)) {
				p := products[i]
				state.ActiveProduct = &p
				state.Stage = StageProductDiscussion
				mentioned = true
			}
		}

		switch turn.Role {
		case RoleAssistant:
			switch {
			case containsAny(lower, t.policy.ConfirmPhrases):
				state.Stage = StageOrderConfirmed
			case containsAny(lower, t.policy.AskNamePhrases),
				containsAny(lower, t.policy.AskPhonePhrases),
				containsAny(lower, t.policy.AskAddressPhrases):
				state.Stage = StageCollectingOrder
			}

		case RoleCustomer, RoleUser:
			if state.Stage == StageCollectingOrder && !mentioned {
				t.collect(&state.Collected, turn.Content, lower)
			}
			if state.Stage == StageGreeting && containsAny(lower, t.policy.BrowsePhrases) {
				state.Stage = StageBrowsing
			}
		}
	}

	return state
}

// collect fills delivery fields from a customer turn. A phone number is
// extracted by pattern from anywhere in the message; any other message is
// taken verbatim as the next unfilled text field, name before address.
// Text must be longer than two characters and not purely numeric, and bare
// acknowledgements are never consumed as field values.
func (t *Tracker) collect(fields *CollectedFields, raw, lower string) {
	if phone := t.policy.PhonePattern.FindString(lower); phone != "" {
		if fields.Phone == "" {
			fields.Phone = phone
		}
		return
	}

	value := strings.TrimSpace(raw)
	if utf8.RuneCountInString(value) <= 2 || isNumeric(value) ||
		isBareAffirmative(strings.TrimSpace(lower), t.policy.AffirmativePhrases) {
		return
	}

	switch {
	case fields.Name == "":
		fields.Name = value
	case fields.Address == "":
		fields.Address = value
	}
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isBareAffirmative(s string, phrases []string) bool {
	for _, p := range phrases {
		if s == p {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
