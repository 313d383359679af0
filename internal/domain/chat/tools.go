package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/infrastructure/metrics"
)

const (
	toolInventoryCheck = "inventory_check"
	toolCreateInvoice  = "create_invoice"
	toolNegotiatePrice = "negotiate_price"
	toolSavePreference = "save_customer_preference"
)

// agentTools returns the function declarations exposed to the model.
func agentTools() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolInventoryCheck,
				Description: "Check current stock and price before promising availability. Pass a product id, or a free-text query to search the catalog.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"productId":  {Type: jsonschema.String, Description: "Catalog id of the product"},
						"query":      {Type: jsonschema.String, Description: "Free-text search when the id is unknown"},
						"checkStock": {Type: jsonschema.Boolean, Description: "Include stock levels in the result, defaults to true"},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolCreateInvoice,
				Description: "Create an order once the customer has confirmed the purchase and provided name, phone and delivery address.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"productId":       {Type: jsonschema.String, Description: "Catalog id of the product"},
						"quantity":        {Type: jsonschema.Integer, Description: "Number of units, at least 1"},
						"customerName":    {Type: jsonschema.String},
						"customerPhone":   {Type: jsonschema.String, Description: "Bangladeshi mobile number"},
						"customerAddress": {Type: jsonschema.String, Description: "Full delivery address"},
						"customerCity":    {Type: jsonschema.String, Description: "Delivery city"},
						"discountPercent": {Type: jsonschema.Integer, Description: "Agreed discount percentage, omit for none"},
						"paymentMethod":   {Type: jsonschema.String, Description: "Payment method, defaults to cash on delivery"},
					},
					Required: []string{"productId", "quantity", "customerName", "customerPhone", "customerAddress", "customerCity"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolNegotiatePrice,
				Description: "Record a discount the customer asked for. Returns whether it is accepted or a counter offer.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"productId":       {Type: jsonschema.String, Description: "Catalog id of the product"},
						"discountPercent": {Type: jsonschema.Integer, Description: "Discount percentage the customer requested"},
					},
					Required: []string{"productId", "discountPercent"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        toolSavePreference,
				Description: "Remember a customer preference such as favorite color, budget or size for later in the session.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"preferenceType": {Type: jsonschema.String, Description: "Preference name, e.g. color or budget"},
						"value":          {Type: jsonschema.String, Description: "Preference value"},
					},
					Required: []string{"preferenceType", "value"},
				},
			},
		},
	}
}

type inventoryCheckArgs struct {
	ProductID  string `json:"productId"`
	Query      string `json:"query"`
	CheckStock *bool  `json:"checkStock"`
}

type createInvoiceArgs struct {
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	CustomerCity    string `json:"customerCity"`
	DiscountPercent int    `json:"discountPercent"`
	PaymentMethod   string `json:"paymentMethod"`
}

type negotiatePriceArgs struct {
	ProductID       string `json:"productId"`
	DiscountPercent int    `json:"discountPercent"`
}

type savePreferenceArgs struct {
	PreferenceType string `json:"preferenceType"`
	Value          string `json:"value"`
}

// defaultCounterOfferPercent is proposed when a customer asks for more
// discount than a product allows, and is the standing offer the fallback
// responder quotes and applies.
const defaultCounterOfferPercent = 10

// maxInventoryMatches bounds free-text inventory results fed to the model.
const maxInventoryMatches = 5

// dispatchTool executes one model-requested function and returns the JSON
// payload fed back as the tool result. Errors are returned as payloads too:
// the model can recover from a failed lookup, a transport error cannot.
func (s *Service) dispatchTool(ctx context.Context, sessionID string, call openai.ToolCall) string {
	result, err := s.runTool(ctx, sessionID, call)
	if err != nil {
		metrics.RecordToolCall(call.Function.Name, "error")
		s.log.Warn().Err(err).Str("tool", call.Function.Name).Str("session_id", sessionID).
			Msg("tool call failed")
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload)
	}
	metrics.RecordToolCall(call.Function.Name, "ok")
	payload, err := json.Marshal(result)
	if err != nil {
		return `{"error":"unserializable tool result"}`
	}
	return string(payload)
}

func (s *Service) runTool(ctx context.Context, sessionID string, call openai.ToolCall) (any, error) {
	raw := []byte(call.Function.Arguments)

	switch call.Function.Name {
	case toolInventoryCheck:
		var args inventoryCheckArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		withStock := args.CheckStock == nil || *args.CheckStock
		if args.ProductID != "" {
			product, err := s.catalog.GetByID(ctx, args.ProductID)
			if err != nil {
				return nil, err
			}
			_ = s.sessions.SetLastProduct(ctx, sessionID, product.ID)
			return inventoryEntry(product, withStock), nil
		}
		if args.Query == "" {
			return nil, fmt.Errorf("productId or query is required")
		}
		matches := s.catalog.Search(ctx, args.Query)
		if len(matches) > maxInventoryMatches {
			matches = matches[:maxInventoryMatches]
		}
		entries := make([]map[string]any, 0, len(matches))
		for i := range matches {
			entries = append(entries, inventoryEntry(&matches[i], withStock))
		}
		return map[string]any{"matches": entries}, nil

	case toolCreateInvoice:
		var args createInvoiceArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		placed, err := s.orders.CreateInvoice(ctx, order.InvoiceRequest{
			ProductID:       args.ProductID,
			Quantity:        args.Quantity,
			DiscountPercent: args.DiscountPercent,
			PaymentMethod:   args.PaymentMethod,
			Customer: order.CustomerInfo{
				Name:    args.CustomerName,
				Phone:   args.CustomerPhone,
				Address: args.CustomerAddress,
				City:    args.CustomerCity,
			},
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"orderId":     placed.ID,
			"totalAmount": placed.TotalAmount,
			"finalAmount": placed.FinalAmount,
			"status":      placed.Status,
		}, nil

	case toolNegotiatePrice:
		var args negotiatePriceArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		product, err := s.catalog.GetByID(ctx, args.ProductID)
		if err != nil {
			return nil, err
		}
		if args.DiscountPercent <= product.MaxDiscountPercent {
			pct := args.DiscountPercent
			if pct < 0 {
				pct = 0
			}
			if err := s.sessions.SaveDiscount(ctx, sessionID, product.ID, pct); err != nil {
				return nil, err
			}
			return map[string]any{
				"accepted":        true,
				"discountPercent": pct,
				"finalPrice":      order.DiscountedPrice(product.Price, pct),
			}, nil
		}
		// the counter offer is recorded too, so order creation honors it
		counter := order.CapDiscount(defaultCounterOfferPercent, product.MaxDiscountPercent)
		if err := s.sessions.SaveDiscount(ctx, sessionID, product.ID, counter); err != nil {
			return nil, err
		}
		return map[string]any{
			"accepted":     false,
			"counterOffer": counter,
			"finalPrice":   order.DiscountedPrice(product.Price, counter),
			"message":      fmt.Sprintf("I can go up to %d%% on %s.", counter, product.Name),
		}, nil

	case toolSavePreference:
		var args savePreferenceArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if args.PreferenceType == "" {
			return nil, fmt.Errorf("preferenceType is required")
		}
		if err := s.sessions.SavePreference(ctx, sessionID, args.PreferenceType, args.Value); err != nil {
			return nil, err
		}
		return map[string]any{"saved": true, "preferenceType": args.PreferenceType}, nil

	default:
		return nil, fmt.Errorf("unknown tool %q", call.Function.Name)
	}
}

func inventoryEntry(p *catalog.Product, withStock bool) map[string]any {
	entry := map[string]any{
		"productId": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	}
	if withStock {
		entry["stock"] = p.Stock
		entry["available"] = p.Available()
	}
	return entry
}
