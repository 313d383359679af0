package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aistore-server/services/storefront-api/internal/domain/catalog"
)

func newTestResponder() *Responder {
	return NewResponder("AI Store", DefaultPolicy())
}

func TestReplyGreeting(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()

	reply, action := responder.Reply("hello", State{Stage: StageGreeting}, products, 0)

	assert.Nil(t, action)
	assert.Contains(t, reply, "AI Store")
	assert.Contains(t, reply, "Premium Wireless Headphones")
}

func TestReplyGreetingFeaturesInStockProduct(t *testing.T) {
	responder := newTestResponder()
	products := []catalog.Product{
		{ID: "prod_1", Name: "Premium Wireless Headphones", Price: 4999, Stock: 0},
		{ID: "prod_2", Name: "Smart Watch", Price: 8999, Stock: 3},
	}

	reply, _ := responder.Reply("hello", State{Stage: StageGreeting}, products, 0)

	assert.Contains(t, reply, "Smart Watch")
	assert.NotContains(t, reply, "Headphones")
}

func TestReplyGreetingWordBoundary(t *testing.T) {
	responder := newTestResponder()

	// "shipping" contains "hi" but must not read as a greeting
	reply, action := responder.Reply("shipping", State{Stage: StageGreeting}, trackerFixtureProducts(), 0)

	assert.Nil(t, action)
	assert.Contains(t, reply, "Which product")
}

func TestReplyListsProducts(t *testing.T) {
	responder := newTestResponder()

	reply, action := responder.Reply("what do you have?", State{Stage: StageBrowsing}, trackerFixtureProducts(), 0)

	assert.Nil(t, action)
	assert.Contains(t, reply, "Premium Wireless Headphones")
	assert.Contains(t, reply, "Smart Watch")
	assert.Contains(t, reply, "Bluetooth Speaker")
}

func TestReplyPriceQuestion(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()
	state := State{Stage: StageProductDiscussion, ActiveProduct: &products[0]}

	reply, action := responder.Reply("how much is it?", state, products, 0)

	assert.Nil(t, action)
	assert.Contains(t, reply, "৳4,999")
	// the proposed 10% discount on 4999 rounds to 4499
	assert.Contains(t, reply, "৳4,499")
}

func TestReplyAffirmativeStartsCollection(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()
	state := State{Stage: StageProductDiscussion, ActiveProduct: &products[1]}

	reply, action := responder.Reply("yes, I'll take it", state, products, 0)

	assert.Nil(t, action)
	// the ask must carry the tracker's own name trigger so the replayed
	// history transitions into order collection
	assert.Contains(t, reply, "your name")
}

func TestReplyAsksNextMissingField(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()

	tests := []struct {
		name      string
		collected CollectedFields
		want      string
	}{
		{"missing name", CollectedFields{}, "your name"},
		{"missing phone", CollectedFields{Name: "Rahim"}, "phone number"},
		{"missing address", CollectedFields{Name: "Rahim", Phone: "01712345678"}, "delivery address"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := State{
				Stage:         StageCollectingOrder,
				ActiveProduct: &products[0],
				Collected:     tc.collected,
			}
			reply, action := responder.Reply("anything", state, products, 0)
			assert.Nil(t, action)
			assert.Contains(t, reply, tc.want)
		})
	}
}

func TestReplyConfirmsCompletedOrder(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()
	state := State{
		Stage:         StageCollectingOrder,
		ActiveProduct: &products[0],
		Collected: CollectedFields{
			Name:    "Rahim Uddin",
			Phone:   "01712345678",
			Address: "House 12, Dhanmondi, Dhaka",
		},
	}

	reply, action := responder.Reply("that's everything", state, products, 10)

	require.NotNil(t, action)
	assert.Equal(t, "prod_1", action.ProductID)
	assert.Equal(t, 1, action.Quantity)
	assert.Equal(t, 10, action.DiscountPercent)
	assert.Equal(t, "Rahim Uddin", action.Customer.Name)
	assert.Equal(t, "01712345678", action.Customer.Phone)
	assert.Contains(t, reply, "Order confirmed")
	assert.Contains(t, reply, "৳4,499")
}

func TestReplyConfirmDefaultsToQuotedDiscount(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()
	state := State{
		Stage:         StageCollectingOrder,
		ActiveProduct: &products[0],
		Collected: CollectedFields{
			Name:    "Rahim Uddin",
			Phone:   "01712345678",
			Address: "House 12, Dhanmondi, Dhaka",
		},
	}

	// nothing was negotiated, yet the price branch advertises 10% off, so
	// the confirmation charges the quoted amount
	reply, action := responder.Reply("done", state, products, 0)

	require.NotNil(t, action)
	assert.Equal(t, 10, action.DiscountPercent)
	assert.Contains(t, reply, "৳4,499")
}

func TestReplyConfirmCapsNegotiatedDiscount(t *testing.T) {
	responder := newTestResponder()
	products := trackerFixtureProducts()
	state := State{
		Stage:         StageCollectingOrder,
		ActiveProduct: &products[1], // max 10%
		Collected: CollectedFields{
			Name:    "Karim",
			Phone:   "01812345678",
			Address: "Uttara, Dhaka",
		},
	}

	_, action := responder.Reply("done", state, products, 25)

	require.NotNil(t, action)
	assert.Equal(t, 10, action.DiscountPercent)
}

func TestReplyNoActiveProduct(t *testing.T) {
	responder := newTestResponder()

	reply, action := responder.Reply("I need something nice", State{Stage: StageGreeting}, trackerFixtureProducts(), 0)

	assert.Nil(t, action)
	assert.Contains(t, reply, "Which product")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{4999, "4,999"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, formatAmount(tc.in))
	}
}
