package handler

import (
	"context"

	"github.com/fekuna/gudang-pos/internal/cart"
	"github.com/fekuna/gudang-pos/internal/pos"
	"google.golang.org/grpc"
)

const ServiceName = "gudang.pos.v1.Terminal"

type SuggestRequest struct {
	Keyword string `json:"keyword"`
}

type SuggestResponse struct {
	Names []string `json:"names"`
}

type AddToCartRequest struct {
	Keyword  string `json:"keyword"`
	Quantity string `json:"quantity"`
}

type EditQuantityRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type RemoveLineRequest struct {
	Name string `json:"name"`
}

type CheckoutRequest struct {
	Confirmed bool `json:"confirmed"`
}

type Empty struct{}

type LineResponse struct {
	Line cart.Line `json:"line"`
}

type CartResponse struct {
	Lines         []cart.Line `json:"lines"`
	TotalQuantity int         `json:"total_quantity"`
}

type CheckoutResponse struct {
	Result *pos.CheckoutResult `json:"result"`
}

type TerminalServer interface {
	Suggest(ctx context.Context, req *SuggestRequest) (*SuggestResponse, error)
	AddToCart(ctx context.Context, req *AddToCartRequest) (*LineResponse, error)
	EditQuantity(ctx context.Context, req *EditQuantityRequest) (*CartResponse, error)
	RemoveLine(ctx context.Context, req *RemoveLineRequest) (*CartResponse, error)
	ClearCart(ctx context.Context, req *Empty) (*CartResponse, error)
	GetCart(ctx context.Context, req *Empty) (*CartResponse, error)
	Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error)
}

type methodHandler = func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error)

func unary[Req, Resp any](method string, call func(TerminalServer, context.Context, *Req) (*Resp, error)) methodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TerminalServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TerminalServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TerminalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TerminalServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Suggest", Handler: unary("Suggest", TerminalServer.Suggest)},
		{MethodName: "AddToCart", Handler: unary("AddToCart", TerminalServer.AddToCart)},
		{MethodName: "EditQuantity", Handler: unary("EditQuantity", TerminalServer.EditQuantity)},
		{MethodName: "RemoveLine", Handler: unary("RemoveLine", TerminalServer.RemoveLine)},
		{MethodName: "ClearCart", Handler: unary("ClearCart", TerminalServer.ClearCart)},
		{MethodName: "GetCart", Handler: unary("GetCart", TerminalServer.GetCart)},
		{MethodName: "Checkout", Handler: unary("Checkout", TerminalServer.Checkout)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gudang/pos/v1/terminal",
}

func RegisterTerminalServer(s grpc.ServiceRegistrar, srv TerminalServer) {
	s.RegisterService(&TerminalServiceDesc, srv)
}

// TerminalClient calls a remote terminal session using the JSON codec.
type TerminalClient struct {
	cc grpc.ClientConnInterface
}

func NewTerminalClient(cc grpc.ClientConnInterface) *TerminalClient {
	return &TerminalClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TerminalClient) Suggest(ctx context.Context, in *SuggestRequest, opts ...grpc.CallOption) (*SuggestResponse, error) {
	return invoke[SuggestResponse](ctx, c.cc, "Suggest", in, opts)
}

func (c *TerminalClient) AddToCart(ctx context.Context, in *AddToCartRequest, opts ...grpc.CallOption) (*LineResponse, error) {
	return invoke[LineResponse](ctx, c.cc, "AddToCart", in, opts)
}

func (c *TerminalClient) EditQuantity(ctx context.Context, in *EditQuantityRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, "EditQuantity", in, opts)
}

func (c *TerminalClient) RemoveLine(ctx context.Context, in *RemoveLineRequest, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, "RemoveLine", in, opts)
}

func (c *TerminalClient) ClearCart(ctx context.Context, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, "ClearCart", &Empty{}, opts)
}

func (c *TerminalClient) GetCart(ctx context.Context, opts ...grpc.CallOption) (*CartResponse, error) {
	return invoke[CartResponse](ctx, c.cc, "GetCart", &Empty{}, opts)
}

func (c *TerminalClient) Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error) {
	return invoke[CheckoutResponse](ctx, c.cc, "Checkout", in, opts)
}
