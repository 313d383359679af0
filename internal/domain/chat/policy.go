package chat

import "regexp"

// Policy is the trigger configuration the tracker replays history against.
// All matching is case-insensitive substring matching except the phone
// pattern, which is a regexp. Phrases are data so a deployment can extend
// or localize them without touching the tracker.
type Policy struct {
	// Assistant-turn triggers. Asking for a field moves the conversation
	// into order collection; the confirmation phrase closes it.
	AskNamePhrases    []string
	AskPhonePhrases   []string
	AskAddressPhrases []string
	ConfirmPhrases    []string

	// Customer-turn triggers.
	AffirmativePhrases []string
	BrowsePhrases      []string
	GreetingPhrases    []string
	PricePhrases       []string

	// PhonePattern extracts a phone number from anywhere in a customer
	// turn. Defaults to the Bangladeshi mobile format.
	PhonePattern *regexp.Regexp
}

var bdPhonePattern = regexp.MustCompile(`01[3-9]\d{8}`)

// DefaultPolicy returns the stock trigger set, covering English and the
// Bengali phrasings the storefront's own canned replies use.
func DefaultPolicy() Policy {
	return Policy{
		AskNamePhrases: []string{
			"your name",
			"আপনার নাম",
		},
		AskPhonePhrases: []string{
			"phone number",
			"mobile number",
			"ফোন নম্বর",
			"মোবাইল নম্বর",
		},
		AskAddressPhrases: []string{
			"your address",
			"delivery address",
			"আপনার ঠিকানা",
			"ডেলিভারি ঠিকানা",
		},
		ConfirmPhrases: []string{
			"order confirmed",
			"order has been confirmed",
			"অর্ডার কনফার্ম",
		},
		AffirmativePhrases: []string{
			"yes",
			"yeah",
			"sure",
			"okay",
			"ok",
			"i'll take it",
			"i want to buy",
			"place the order",
			"হ্যাঁ",
			"জ্বি",
			"আচ্ছা",
			"নিব",
		},
		GreetingPhrases: []string{
			"hello",
			"hi",
			"hey",
			"salam",
			"আসসালামু",
			"হ্যালো",
		},
		PricePhrases: []string{
			"price",
			"cost",
			"how much",
			"discount",
			"offer",
			"দাম",
			"কত",
			"ডিসকাউন্ট",
			"ছাড়",
		},
		BrowsePhrases: []string{
			"show me",
			"what do you have",
			"what products",
			"catalog",
			"কি কি আছে",
			"প্রোডাক্ট দেখান",
		},
		PhonePattern: bdPhonePattern,
	}
}
