package chat

import (
	"fmt"
	"strings"

	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/utils/functional"
)

// OrderAction is the side effect a fallback confirmation requests: the
// service turns it into an invoice once the reply is composed.
type OrderAction struct {
	ProductID       string
	Quantity        int
	DiscountPercent int
	Customer        order.CustomerInfo
}

// Responder composes deterministic replies when no generative backend is
// available. Replies deliberately contain the tracker's own trigger phrases
// so the conversation keeps progressing when the next request replays the
// history.
type Responder struct {
	storeName string
	policy    Policy
}

func NewResponder(storeName string, policy Policy) *Responder {
	return &Responder{storeName: storeName, policy: policy}
}

// Reply walks a fixed decision table, most specific branch first. The
// negotiated discount, if any, comes from session memory and is already
// capped by the caller.
func (r *Responder) Reply(message string, state State, products []catalog.Product, negotiated int) (string, *OrderAction) {
	lower := strings.ToLower(message)

	if state.Stage == StageCollectingOrder && state.ActiveProduct != nil {
		if state.Collected.Complete() {
			return r.confirmOrder(state, negotiated)
		}
		return r.askNext(state.Collected), nil
	}

	if state.Stage == StageProductDiscussion && state.ActiveProduct != nil &&
		matchesAny(lower, r.policy.AffirmativePhrases) {
		return fmt.Sprintf("Great choice! To place your order for %s, may I have your name please?",
			state.ActiveProduct.Name), nil
	}

	if matchesAny(lower, r.policy.PricePhrases) && state.ActiveProduct != nil {
		p := state.ActiveProduct
		pct := order.CapDiscount(defaultCounterOfferPercent, p.MaxDiscountPercent)
		if pct > 0 {
			return fmt.Sprintf("%s is priced at ৳%s. For you I can offer %d%% off, bringing it down to ৳%s. Shall I place the order?",
				p.Name, formatAmount(p.Price), pct, formatAmount(order.DiscountedPrice(p.Price, pct))), nil
		}
		return fmt.Sprintf("%s is priced at ৳%s. Shall I place the order?",
			p.Name, formatAmount(p.Price)), nil
	}

	if matchesAny(lower, r.policy.GreetingPhrases) && state.Stage == StageGreeting {
		// feature an in-stock product when the catalog has one
		featured, ok := functional.Find(products, func(p catalog.Product) bool { return p.Available() })
		if !ok && len(products) > 0 {
			featured = products[0]
			ok = true
		}
		if ok {
			return fmt.Sprintf("Hello! Welcome to %s. Have a look at our %s at ৳%s. What can I help you find today?",
				r.storeName, featured.Name, formatAmount(featured.Price)), nil
		}
		return fmt.Sprintf("Hello! Welcome to %s. What can I help you find today?", r.storeName), nil
	}

	if matchesAny(lower, r.policy.BrowsePhrases) {
		return r.listProducts(products), nil
	}

	if state.ActiveProduct == nil {
		return "Which product are you interested in? Tell me the name and I'll share the details.", nil
	}

	return fmt.Sprintf("%s is a great pick at ৳%s. Would you like to order it?",
		state.ActiveProduct.Name, formatAmount(state.ActiveProduct.Price)), nil
}

func (r *Responder) askNext(fields CollectedFields) string {
	switch fields.NextMissing() {
	case "name":
		return "May I have your name please?"
	case "phone":
		return "Thanks! What's your phone number?"
	default:
		return "Almost done! What's your delivery address?"
	}
}

func (r *Responder) confirmOrder(state State, negotiated int) (string, *OrderAction) {
	p := state.ActiveProduct

	// without a negotiated discount, honor the default offer the price
	// branch quotes so the confirmed amount matches the promise
	discount := negotiated
	if discount <= 0 {
		discount = defaultCounterOfferPercent
	}
	pct := order.CapDiscount(discount, p.MaxDiscountPercent)
	final := order.DiscountedPrice(p.Price, pct)

	action := &OrderAction{
		ProductID:       p.ID,
		Quantity:        1,
		DiscountPercent: pct,
		Customer: order.CustomerInfo{
			Name:    state.Collected.Name,
			Phone:   state.Collected.Phone,
			Address: state.Collected.Address,
		},
	}

	reply := fmt.Sprintf("✅ Order confirmed! %s for ৳%s will be delivered to %s. We'll call you at %s before dispatch. Thank you for shopping with %s!",
		p.Name, formatAmount(final), state.Collected.Address, state.Collected.Phone, r.storeName)
	return reply, action
}

func (r *Responder) listProducts(products []catalog.Product) string {
	if len(products) == 0 {
		return "Our catalog is being restocked right now. Please check back soon!"
	}
	var b strings.Builder
	b.WriteString("Here's what we have:\n")
	for i, p := range products {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "• %s — ৳%s\n", p.Name, formatAmount(p.Price))
	}
	b.WriteString("Which one would you like to know more about?")
	return b.String()
}

// matchesAny matches multi-word phrases as substrings and single words
// against whole tokens, so "hi" does not fire inside "shipping".
func matchesAny(lower string, phrases []string) bool {
	var words []string
	for _, p := range phrases {
		if strings.Contains(p, " ") || !isASCIIWord(p) {
			if strings.Contains(lower, p) {
				return true
			}
			continue
		}
		if words == nil {
			words = strings.FieldsFunc(lower, func(r rune) bool {
				return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '\''
			})
		}
		for _, w := range words {
			if w == p {
				return true
			}
		}
	}
	return false
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// formatAmount renders an integer amount with thousands separators.
func formatAmount(n int) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return "-" + formatAmount(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
