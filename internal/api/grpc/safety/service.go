package safety

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oshokin/sos-button/internal/api/grpc/codec"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sos.v1.SafetyService"

// SafetyServiceServer is the server API for SafetyService.
type SafetyServiceServer interface {
	RaiseAlert(ctx context.Context, req *RaiseAlertRequest) (*AlertResponse, error)
	ResolveAlert(ctx context.Context, req *ResolveAlertRequest) (*AlertResponse, error)
	ListAlerts(ctx context.Context, req *ListAlertsRequest) (*ListAlertsResponse, error)
	AddContact(ctx context.Context, req *AddContactRequest) (*ContactResponse, error)
	ListContacts(ctx context.Context, req *ListContactsRequest) (*ListContactsResponse, error)
	DeleteContact(ctx context.Context, req *DeleteContactRequest) (*DeleteContactResponse, error)
	GetProfile(ctx context.Context, req *GetProfileRequest) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*ProfileResponse, error)
}

// SafetyServiceClient is the client API for SafetyService.
type SafetyServiceClient interface {
	RaiseAlert(ctx context.Context, req *RaiseAlertRequest, opts ...grpc.CallOption) (*AlertResponse, error)
	ResolveAlert(ctx context.Context, req *ResolveAlertRequest, opts ...grpc.CallOption) (*AlertResponse, error)
	ListAlerts(ctx context.Context, req *ListAlertsRequest, opts ...grpc.CallOption) (*ListAlertsResponse, error)
	AddContact(ctx context.Context, req *AddContactRequest, opts ...grpc.CallOption) (*ContactResponse, error)
	ListContacts(
		ctx context.Context,
		req *ListContactsRequest,
		opts ...grpc.CallOption,
	) (*ListContactsResponse, error)
	DeleteContact(
		ctx context.Context,
		req *DeleteContactRequest,
		opts ...grpc.CallOption,
	) (*DeleteContactResponse, error)
	GetProfile(ctx context.Context, req *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
}

// ServiceDesc describes SafetyService for grpc.Server registration.
//
//nolint:gochecknoglobals // Descriptor tables are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SafetyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("RaiseAlert", SafetyServiceServer.RaiseAlert),
		unary("ResolveAlert", SafetyServiceServer.ResolveAlert),
		unary("ListAlerts", SafetyServiceServer.ListAlerts),
		unary("AddContact", SafetyServiceServer.AddContact),
		unary("ListContacts", SafetyServiceServer.ListContacts),
		unary("DeleteContact", SafetyServiceServer.DeleteContact),
		unary("GetProfile", SafetyServiceServer.GetProfile),
		unary("UpdateProfile", SafetyServiceServer.UpdateProfile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sos/v1/safety.proto",
}

// RegisterSafetyServiceServer registers srv on s.
func RegisterSafetyServiceServer(s grpc.ServiceRegistrar, srv SafetyServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds the method descriptor dispatching to call.
func unary[Req, Resp any](
	name string,
	call func(SafetyServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(
			srv any,
			ctx context.Context,
			dec func(any) error,
			interceptor grpc.UnaryServerInterceptor,
		) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			server, _ := srv.(SafetyServiceServer)

			if interceptor == nil {
				return call(server, ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}

			handler := func(ctx context.Context, req any) (any, error) {
				typed, _ := req.(*Req)
				return call(server, ctx, typed)
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

// safetyServiceClient invokes SafetyService methods over a connection.
type safetyServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSafetyServiceClient returns a client using the JSON codec on cc.
func NewSafetyServiceClient(cc grpc.ClientConnInterface) SafetyServiceClient {
	return &safetyServiceClient{cc: cc}
}

func (c *safetyServiceClient) RaiseAlert(
	ctx context.Context,
	req *RaiseAlertRequest,
	opts ...grpc.CallOption,
) (*AlertResponse, error) {
	return invoke[AlertResponse](ctx, c.cc, "RaiseAlert", req, opts)
}

func (c *safetyServiceClient) ResolveAlert(
	ctx context.Context,
	req *ResolveAlertRequest,
	opts ...grpc.CallOption,
) (*AlertResponse, error) {
	return invoke[AlertResponse](ctx, c.cc, "ResolveAlert", req, opts)
}

func (c *safetyServiceClient) ListAlerts(
	ctx context.Context,
	req *ListAlertsRequest,
	opts ...grpc.CallOption,
) (*ListAlertsResponse, error) {
	return invoke[ListAlertsResponse](ctx, c.cc, "ListAlerts", req, opts)
}

func (c *safetyServiceClient) AddContact(
	ctx context.Context,
	req *AddContactRequest,
	opts ...grpc.CallOption,
) (*ContactResponse, error) {
	return invoke[ContactResponse](ctx, c.cc, "AddContact", req, opts)
}

func (c *safetyServiceClient) ListContacts(
	ctx context.Context,
	req *ListContactsRequest,
	opts ...grpc.CallOption,
) (*ListContactsResponse, error) {
	return invoke[ListContactsResponse](ctx, c.cc, "ListContacts", req, opts)
}

func (c *safetyServiceClient) DeleteContact(
	ctx context.Context,
	req *DeleteContactRequest,
	opts ...grpc.CallOption,
) (*DeleteContactResponse, error) {
	return invoke[DeleteContactResponse](ctx, c.cc, "DeleteContact", req, opts)
}

func (c *safetyServiceClient) GetProfile(
	ctx context.Context,
	req *GetProfileRequest,
	opts ...grpc.CallOption,
) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "GetProfile", req, opts)
}

func (c *safetyServiceClient) UpdateProfile(
	ctx context.Context,
	req *UpdateProfileRequest,
	opts ...grpc.CallOption,
) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "UpdateProfile", req, opts)
}

// invoke performs one unary call with the JSON content subtype.
func invoke[Resp any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	req any,
	opts []grpc.CallOption,
) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)

	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, callOpts...); err != nil {
		return nil, err
	}

	return out, nil
}
