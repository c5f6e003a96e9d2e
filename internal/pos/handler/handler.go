package handler

import (
	"context"
	"errors"

	"github.com/fekuna/gudang-pos/internal/cart"
	"github.com/fekuna/gudang-pos/internal/operator"
	"github.com/fekuna/gudang-pos/internal/pos"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ TerminalServer = (*TerminalHandler)(nil)

type TerminalHandler struct {
	uc     pos.UseCase
	logger logger.ZapLogger
}

func NewTerminalHandler(uc pos.UseCase, log logger.ZapLogger) *TerminalHandler {
	return &TerminalHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *TerminalHandler) Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResponse, error) {
	return &SuggestResponse{Names: h.uc.Suggest(req.Keyword)}, nil
}

func (h *TerminalHandler) AddToCart(ctx context.Context, req *AddToCartRequest) (*LineResponse, error) {
	line, err := h.uc.AddToCart(ctx, req.Keyword, req.Quantity)
	if err != nil {
		return nil, h.toStatus(ctx, "add to cart", err)
	}
	return &LineResponse{Line: *line}, nil
}

func (h *TerminalHandler) EditQuantity(ctx context.Context, req *EditQuantityRequest) (*CartResponse, error) {
	if err := h.uc.EditQuantity(ctx, req.Name, req.Quantity); err != nil {
		return nil, h.toStatus(ctx, "edit quantity", err)
	}
	return h.cart(), nil
}

func (h *TerminalHandler) RemoveLine(ctx context.Context, req *RemoveLineRequest) (*CartResponse, error) {
	if err := h.uc.RemoveLine(ctx, req.Name); err != nil {
		return nil, h.toStatus(ctx, "remove line", err)
	}
	return h.cart(), nil
}

func (h *TerminalHandler) ClearCart(ctx context.Context, _ *Empty) (*CartResponse, error) {
	h.uc.ClearCart(ctx)
	return h.cart(), nil
}

func (h *TerminalHandler) GetCart(ctx context.Context, _ *Empty) (*CartResponse, error) {
	return h.cart(), nil
}

func (h *TerminalHandler) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	res, err := h.uc.Checkout(ctx, req.Confirmed)
	if err != nil {
		return nil, h.toStatus(ctx, "checkout", err)
	}
	return &CheckoutResponse{Result: res}, nil
}

func (h *TerminalHandler) cart() *CartResponse {
	lines := h.uc.Cart()
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return &CartResponse{Lines: lines, TotalQuantity: total}
}

func (h *TerminalHandler) toStatus(ctx context.Context, op string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, pos.ErrNotFound), errors.Is(err, cart.ErrLineNotFound):
		code = codes.NotFound
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, pos.ErrNotConfirmed):
		code = codes.InvalidArgument
	case errors.Is(err, pos.ErrEmptyCart), errors.Is(err, pos.ErrInsufficientStock):
		code = codes.FailedPrecondition
	case errors.Is(err, pos.ErrPrintFailed):
		code = codes.Unavailable
	case errors.Is(err, pos.ErrPersistFailed):
		code = codes.DataLoss
	default:
		code = codes.Internal
	}

	fields := []zap.Field{zap.String("op", op), zap.String("code", code.String()), zap.Error(err)}
	if name := operator.GetOperator(ctx); name != "" {
		fields = append(fields, zap.String("operator", name))
	}
	if code == codes.Internal || code == codes.DataLoss {
		h.logger.Error("terminal request failed", fields...)
	} else {
		h.logger.Debug("terminal request rejected", fields...)
	}
	return status.Error(code, err.Error())
}
