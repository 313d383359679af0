package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/domain/store"
	"aistore-server/services/storefront-api/internal/infrastructure/metrics"
	"aistore-server/services/storefront-api/internal/utils/idgen"
)

// Completer abstracts the generative backend. Implementations own their
// timeout and must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	Enabled() bool
}

// Request is one inbound sales-chat turn. History is the full prior
// transcript as the client has it; the server trusts the replay, not the
// client's idea of the state.
type Request struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	History   []Turn `json:"conversationHistory"`
}

// Response carries the reply plus the freshly derived state so the client
// can render stage and collected fields without computing anything. Order
// is set when this turn placed one.
type Response struct {
	Reply            string       `json:"message"`
	MessageID        string       `json:"messageId"`
	State            State        `json:"state"`
	Order            *order.Order `json:"order,omitempty"`
	AwaitingApproval bool         `json:"awaitingApproval,omitempty"`
}

const (
	backendGenerative = "generative"
	backendFallback   = "fallback"

	// maxToolRounds bounds the model's tool loop per request.
	maxToolRounds = 5

	apologyReply = "I'm sorry, I'm having a little trouble right now. Please try again in a moment, or leave us a message and we'll get back to you!"
)

var (
	errEmptyCompletion  = errors.New("completion returned no choices")
	errToolLoopExceeded = errors.New("tool loop exceeded round limit")
)

type Service struct {
	cfg       *config.Config
	catalog   *catalog.Service
	orders    *order.Service
	store     *store.Service
	sessions  SessionRepository
	completer Completer
	tracker   *Tracker
	log       zerolog.Logger
}

func NewService(
	cfg *config.Config,
	catalogSvc *catalog.Service,
	orderSvc *order.Service,
	storeSvc *store.Service,
	sessions SessionRepository,
	completer Completer,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:       cfg,
		catalog:   catalogSvc,
		orders:    orderSvc,
		store:     storeSvc,
		sessions:  sessions,
		completer: completer,
		tracker:   NewTracker(DefaultPolicy()),
		log:       log,
	}
}

// Handle processes one customer turn end to end: derive state from the
// replayed history, try the generative backend, and fall back to the
// deterministic responder when the backend is unavailable or fails.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	products := s.catalog.List(ctx)
	settings := s.store.Get(ctx)

	turns := append(normalizeTurns(req.History), Turn{
		Role:      RoleCustomer,
		Content:   req.Message,
		Timestamp: time.Now().UTC(),
	})
	state := s.tracker.Infer(turns, products)

	session, err := s.sessions.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", req.SessionID).Msg("session unavailable, continuing without memory")
		session = nil
	}
	if session != nil && state.ActiveProduct != nil {
		_ = s.sessions.SetLastProduct(ctx, req.SessionID, state.ActiveProduct.ID)
	}

	if s.completer != nil && s.completer.Enabled() {
		reply, orderID, err := s.generate(ctx, req, turns, state, session, settings, products)
		if err == nil {
			return s.finish(req, turns, products, reply, s.lookupOrder(ctx, orderID), backendGenerative)
		}
		s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("generative backend failed, using fallback")
	}

	reply, placed := s.fallback(ctx, req, state, session, settings, products)
	return s.finish(req, turns, products, reply, placed, backendFallback)
}

// generate runs the model with the agent toolset, feeding tool results back
// until it produces a final text reply.
func (s *Service) generate(
	ctx context.Context,
	req Request,
	turns []Turn,
	state State,
	session *Session,
	settings store.Settings,
	products []catalog.Product,
) (string, string, error) {
	system := buildSystemPrompt(settings.StoreName, settings.StoreDescription,
		settings.AI.MaxDiscountPercent, products, state, session)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
	}
	window := turns
	if n := s.cfg.AIHistoryWindow; n > 0 && len(window) > n {
		window = window[len(window)-n:]
	}
	for _, turn := range window {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	var orderID string
	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.completer.Complete(ctx, openai.ChatCompletionRequest{
			Model:       s.cfg.AIModel,
			Messages:    messages,
			Tools:       agentTools(),
			Temperature: s.cfg.AITemperature,
			MaxTokens:   s.cfg.AIMaxTokens,
		})
		if err != nil {
			return "", "", err
		}
		if len(resp.Choices) == 0 {
			return "", "", errEmptyCompletion
		}

		choice := resp.Choices[0].Message
		if len(choice.ToolCalls) == 0 {
			return choice.Content, orderID, nil
		}

		messages = append(messages, choice)
		for _, call := range choice.ToolCalls {
			result := s.dispatchTool(ctx, req.SessionID, call)
			if call.Function.Name == toolCreateInvoice {
				if id := extractOrderID(result); id != "" {
					orderID = id
				}
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}
	return "", "", errToolLoopExceeded
}

// fallback walks the deterministic decision table and executes its order
// action, if any, through the same invoicing path the tools use.
func (s *Service) fallback(
	ctx context.Context,
	req Request,
	state State,
	session *Session,
	settings store.Settings,
	products []catalog.Product,
) (string, *order.Order) {
	negotiated := 0
	if session != nil && state.ActiveProduct != nil {
		negotiated = session.NegotiatedDiscounts[state.ActiveProduct.ID]
	}

	responder := NewResponder(settings.StoreName, s.tracker.policy)
	reply, action := responder.Reply(req.Message, state, products, negotiated)
	if action == nil {
		return reply, nil
	}

	placed, err := s.orders.CreateInvoice(ctx, order.InvoiceRequest{
		ProductID:       action.ProductID,
		Quantity:        action.Quantity,
		DiscountPercent: action.DiscountPercent,
		Customer:        action.Customer,
	})
	if err != nil {
		s.log.Error().Err(err).Str("session_id", req.SessionID).
			Str("product_id", action.ProductID).Msg("fallback order failed")
		return apologyReply, nil
	}
	return reply, placed
}

// finish appends the assistant turn, re-derives state so the response
// reflects the transition the reply itself causes, and records metrics.
func (s *Service) finish(req Request, turns []Turn, products []catalog.Product, reply string, placed *order.Order, backend string) Response {
	final := append(turns, Turn{
		Role:      RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	})
	state := s.tracker.Infer(final, products)
	metrics.RecordChatReply(backend, string(state.Stage))
	s.log.Info().Str("session_id", req.SessionID).Str("backend", backend).
		Str("stage", string(state.Stage)).Msg("chat reply sent")
	return Response{
		Reply:            reply,
		MessageID:        idgen.MustGenerateSecureID("msg", 20),
		State:            state,
		Order:            placed,
		AwaitingApproval: placed != nil && placed.Status == order.StatusPendingApproval,
	}
}

// lookupOrder resolves an order id reported by a tool call. A lookup
// failure only costs the response its order payload, never the reply.
func (s *Service) lookupOrder(ctx context.Context, orderID string) *order.Order {
	if orderID == "" {
		return nil
	}
	placed, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("failed to load placed order")
		return nil
	}
	return placed
}

func normalizeTurns(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == RoleUser {
			t.Role = RoleCustomer
		}
		if t.Content == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func extractOrderID(payload string) string {
	var v struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return ""
	}
	return v.OrderID
}
