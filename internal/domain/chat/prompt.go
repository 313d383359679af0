package chat

import (
	"fmt"
	"strings"

	"aistore-server/services/storefront-api/internal/domain/catalog"
)

// buildSystemPrompt assembles the instruction block sent ahead of the
// conversation history. The catalog and derived state are inlined so the
// model never has to guess what is in stock or where the sale stands.
func buildSystemPrompt(storeName, storeDescription string, maxDiscount int, products []catalog.Product, state State, session *Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a friendly, persuasive sales agent for %s, an online store in Bangladesh.", storeName)
	if storeDescription != "" {
		fmt.Fprintf(&b, " %s.", strings.TrimSuffix(storeDescription, "."))
	}
	b.WriteString("\n\nProduct catalog:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (id: %s): ৳%s, %d in stock", p.Name, p.ID, formatAmount(p.Price), p.Stock)
		if p.Description != "" {
			fmt.Fprintf(&b, ". %s", p.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nRules:\n")
	fmt.Fprintf(&b, "- Prices are in Bangladeshi Taka (৳). Never invent products or prices.\n")
	fmt.Fprintf(&b, "- You may negotiate discounts up to %d%% per product, never more. Use negotiate_price to record an agreed discount.\n", maxDiscount)
	b.WriteString("- Check stock with inventory_check before promising availability.\n")
	b.WriteString("- When the customer agrees to buy, collect their name, phone number and delivery address, then call create_invoice.\n")
	b.WriteString("- Remember useful customer details with save_customer_preference.\n")
	b.WriteString("- Keep replies short and warm. Reply in the customer's language, English or Bengali.\n")

	fmt.Fprintf(&b, "\nConversation stage: %s.\n", state.Stage)
	if state.ActiveProduct != nil {
		fmt.Fprintf(&b, "Product under discussion: %s (id: %s).\n", state.ActiveProduct.Name, state.ActiveProduct.ID)
	}
	if f := state.Collected; f.Name != "" || f.Phone != "" || f.Address != "" {
		fmt.Fprintf(&b, "Collected so far: name=%q phone=%q address=%q.\n", f.Name, f.Phone, f.Address)
	}

	if session != nil {
		if len(session.NegotiatedDiscounts) > 0 {
			b.WriteString("Discounts already agreed this session:\n")
			for productID, pct := range session.NegotiatedDiscounts {
				fmt.Fprintf(&b, "- %s: %d%%\n", productID, pct)
			}
		}
		if len(session.Preferences) > 0 {
			b.WriteString("Known customer preferences:\n")
			for k, v := range session.Preferences {
				fmt.Fprintf(&b, "- %s: %s\n", k, v)
			}
		}
	}

	return b.String()
}
