package handler

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gofriends.v1.RelationshipService"

const (
	MethodGetRelationship     = "/" + ServiceName + "/GetRelationship"
	MethodGetFriends          = "/" + ServiceName + "/GetFriends"
	MethodGetFriendCount      = "/" + ServiceName + "/GetFriendCount"
	MethodGetReceivedRequests = "/" + ServiceName + "/GetReceivedRequests"
	MethodGetSentRequests     = "/" + ServiceName + "/GetSentRequests"
	MethodSendRequest         = "/" + ServiceName + "/SendRequest"
	MethodAcceptRequest       = "/" + ServiceName + "/AcceptRequest"
	MethodIgnoreRequest       = "/" + ServiceName + "/IgnoreRequest"
	MethodRemoveFriend        = "/" + ServiceName + "/RemoveFriend"
	MethodResync              = "/" + ServiceName + "/Resync"
)

// WriteMethods are the calls subject to per-account rate limiting.
var WriteMethods = map[string]bool{
	MethodSendRequest:   true,
	MethodAcceptRequest: true,
	MethodIgnoreRequest: true,
	MethodRemoveFriend:  true,
}

type RelationshipServiceServer interface {
	GetRelationship(context.Context, *PairRequest) (*RelationshipReply, error)
	GetFriends(context.Context, *AccountRequest) (*AccountsReply, error)
	GetFriendCount(context.Context, *AccountRequest) (*CountReply, error)
	GetReceivedRequests(context.Context, *AccountRequest) (*ReceivedRequestsReply, error)
	GetSentRequests(context.Context, *AccountRequest) (*AccountsReply, error)
	SendRequest(context.Context, *PairRequest) (*AckReply, error)
	AcceptRequest(context.Context, *PairRequest) (*AckReply, error)
	IgnoreRequest(context.Context, *PairRequest) (*AckReply, error)
	RemoveFriend(context.Context, *PairRequest) (*AckReply, error)
	Resync(context.Context, *ResyncRequest) (*ResyncReply, error)
}

func RegisterRelationshipServiceServer(s grpc.ServiceRegistrar, srv RelationshipServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req any, Reply any](fullMethod string, call func(RelationshipServiceServer, context.Context, *Req) (*Reply, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RelationshipServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RelationshipServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RelationshipServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetRelationship", Handler: unary(MethodGetRelationship, RelationshipServiceServer.GetRelationship)},
		{MethodName: "GetFriends", Handler: unary(MethodGetFriends, RelationshipServiceServer.GetFriends)},
		{MethodName: "GetFriendCount", Handler: unary(MethodGetFriendCount, RelationshipServiceServer.GetFriendCount)},
		{MethodName: "GetReceivedRequests", Handler: unary(MethodGetReceivedRequests, RelationshipServiceServer.GetReceivedRequests)},
		{MethodName: "GetSentRequests", Handler: unary(MethodGetSentRequests, RelationshipServiceServer.GetSentRequests)},
		{MethodName: "SendRequest", Handler: unary(MethodSendRequest, RelationshipServiceServer.SendRequest)},
		{MethodName: "AcceptRequest", Handler: unary(MethodAcceptRequest, RelationshipServiceServer.AcceptRequest)},
		{MethodName: "IgnoreRequest", Handler: unary(MethodIgnoreRequest, RelationshipServiceServer.IgnoreRequest)},
		{MethodName: "RemoveFriend", Handler: unary(MethodRemoveFriend, RelationshipServiceServer.RemoveFriend)},
		{MethodName: "Resync", Handler: unary(MethodResync, RelationshipServiceServer.Resync)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gofriends/v1/relationship",
}

// RelationshipServiceClient calls the service over any gRPC connection using
// the JSON codec.
type RelationshipServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRelationshipServiceClient(cc grpc.ClientConnInterface) *RelationshipServiceClient {
	return &RelationshipServiceClient{cc: cc}
}

func (c *RelationshipServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *RelationshipServiceClient) GetRelationship(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*RelationshipReply, error) {
	out := new(RelationshipReply)
	if err := c.invoke(ctx, MethodGetRelationship, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) GetFriends(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*AccountsReply, error) {
	out := new(AccountsReply)
	if err := c.invoke(ctx, MethodGetFriends, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) GetFriendCount(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*CountReply, error) {
	out := new(CountReply)
	if err := c.invoke(ctx, MethodGetFriendCount, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) GetReceivedRequests(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*ReceivedRequestsReply, error) {
	out := new(ReceivedRequestsReply)
	if err := c.invoke(ctx, MethodGetReceivedRequests, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) GetSentRequests(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*AccountsReply, error) {
	out := new(AccountsReply)
	if err := c.invoke(ctx, MethodGetSentRequests, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) SendRequest(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*AckReply, error) {
	out := new(AckReply)
	if err := c.invoke(ctx, MethodSendRequest, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) AcceptRequest(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*AckReply, error) {
	out := new(AckReply)
	if err := c.invoke(ctx, MethodAcceptRequest, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) IgnoreRequest(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*AckReply, error) {
	out := new(AckReply)
	if err := c.invoke(ctx, MethodIgnoreRequest, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) RemoveFriend(ctx context.Context, in *PairRequest, opts ...grpc.CallOption) (*AckReply, error) {
	out := new(AckReply)
	if err := c.invoke(ctx, MethodRemoveFriend, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RelationshipServiceClient) Resync(ctx context.Context, in *ResyncRequest, opts ...grpc.CallOption) (*ResyncReply, error) {
	out := new(ResyncReply)
	if err := c.invoke(ctx, MethodResync, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
