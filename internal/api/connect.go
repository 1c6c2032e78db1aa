package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// ServiceName is the fully-qualified name of the ledger RPC service.
const ServiceName = "splitledger.v1.LedgerService"

// Procedure paths, in the layout protoc-gen-connect-go would produce.
const (
	CreateGroupProcedure = "/" + ServiceName + "/CreateGroup"
	GetGroupProcedure    = "/" + ServiceName + "/GetGroup"
	AddMemberProcedure   = "/" + ServiceName + "/AddMember"
	AddExpenseProcedure  = "/" + ServiceName + "/AddExpense"
	GetBalancesProcedure = "/" + ServiceName + "/GetBalances"
)

// LedgerHandler implements the Connect LedgerService.
type LedgerHandler struct {
	ops operations
}

// NewLedgerHandler builds an http.Handler serving every ledger procedure and
// returns the path prefix to mount it on.
func NewLedgerHandler(ledger Ledger, opts ...connect.HandlerOption) (string, http.Handler) {
	h := &LedgerHandler{ops: operations{ledger: ledger}}
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateGroupProcedure, connect.NewUnaryHandler(CreateGroupProcedure, h.CreateGroup, opts...))
	mux.Handle(GetGroupProcedure, connect.NewUnaryHandler(GetGroupProcedure, h.GetGroup, opts...))
	mux.Handle(AddMemberProcedure, connect.NewUnaryHandler(AddMemberProcedure, h.AddMember, opts...))
	mux.Handle(AddExpenseProcedure, connect.NewUnaryHandler(AddExpenseProcedure, h.AddExpense, opts...))
	mux.Handle(GetBalancesProcedure, connect.NewUnaryHandler(GetBalancesProcedure, h.GetBalances, opts...))
	return "/" + ServiceName + "/", mux
}

// CreateGroup creates a new group.
func (h *LedgerHandler) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[IDResponse], error) {
	return respond(h.ops.createGroup(ctx, req.Msg))
}

// GetGroup retrieves a group with its members and expenses.
func (h *LedgerHandler) GetGroup(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[GroupResponse], error) {
	return respond(h.ops.group(ctx, req.Msg))
}

// AddMember adds a member to an existing group.
func (h *LedgerHandler) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[IDResponse], error) {
	return respond(h.ops.addMember(ctx, req.Msg))
}

// AddExpense records an expense in a group.
func (h *LedgerHandler) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[IDResponse], error) {
	return respond(h.ops.addExpense(ctx, req.Msg))
}

// GetBalances computes every member's net balance.
func (h *LedgerHandler) GetBalances(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[BalancesResponse], error) {
	return respond(h.ops.balances(ctx, req.Msg))
}

func respond[T any](msg *T, err error) (*connect.Response[T], error) {
	if err != nil {
		return nil, connect.NewError(connectCode(err), err)
	}
	return connect.NewResponse(msg), nil
}

// LedgerClient is a Connect client for the ledger service.
type LedgerClient struct {
	createGroup *connect.Client[CreateGroupRequest, IDResponse]
	getGroup    *connect.Client[GroupRequest, GroupResponse]
	addMember   *connect.Client[AddMemberRequest, IDResponse]
	addExpense  *connect.Client[AddExpenseRequest, IDResponse]
	getBalances *connect.Client[GroupRequest, BalancesResponse]
}

// NewLedgerClient constructs a client for the ledger service at baseURL
// (e.g., "http://localhost:8080").
func NewLedgerClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerClient {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &LedgerClient{
		createGroup: connect.NewClient[CreateGroupRequest, IDResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[GroupRequest, GroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		addMember:   connect.NewClient[AddMemberRequest, IDResponse](httpClient, baseURL+AddMemberProcedure, opts...),
		addExpense:  connect.NewClient[AddExpenseRequest, IDResponse](httpClient, baseURL+AddExpenseProcedure, opts...),
		getBalances: connect.NewClient[GroupRequest, BalancesResponse](httpClient, baseURL+GetBalancesProcedure, opts...),
	}
}

// CreateGroup calls splitledger.v1.LedgerService.CreateGroup.
func (c *LedgerClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[IDResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// GetGroup calls splitledger.v1.LedgerService.GetGroup.
func (c *LedgerClient) GetGroup(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[GroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

// AddMember calls splitledger.v1.LedgerService.AddMember.
func (c *LedgerClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[IDResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

// AddExpense calls splitledger.v1.LedgerService.AddExpense.
func (c *LedgerClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[IDResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

// GetBalances calls splitledger.v1.LedgerService.GetBalances.
func (c *LedgerClient) GetBalances(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[BalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}
