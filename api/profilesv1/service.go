package profilesv1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "valet.profiles.v1.ProfilesService"

// ProfilesServiceServer — серверная сторона ProfilesService.
// Владелец запроса передаётся через metadata "authorization: Bearer <jwt>".
type ProfilesServiceServer interface {
	GetSelfProfile(context.Context, *Empty) (*Profile, error)
	SaveSelfProfile(context.Context, *SaveSelfProfileRequest) (*Profile, error)
	ListProfiles(context.Context, *Empty) (*ListProfilesResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*Profile, error)
	SaveProfile(context.Context, *SaveProfileRequest) (*Profile, error)
	DeleteProfile(context.Context, *DeleteProfileRequest) (*Empty, error)
	UploadPhoto(context.Context, *UploadPhotoRequest) (*UploadPhotoResponse, error)
	DeletePhoto(context.Context, *DeletePhotoRequest) (*Empty, error)
	ListPhotos(context.Context, *Empty) (*ListPhotosResponse, error)
	UpcomingBirthdays(context.Context, *UpcomingBirthdaysRequest) (*UpcomingBirthdaysResponse, error)
	GiftIdeas(context.Context, *GiftIdeasRequest) (*GiftIdeasResponse, error)
}

// FullMethod возвращает "/valet.profiles.v1.ProfilesService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary строит описание метода: декодирует запрос и пропускает вызов через интерсепторы сервера.
func unary[Req, Resp any](name string, call func(ProfilesServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}

			if interceptor == nil {
				return call(srv.(ProfilesServiceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProfilesServiceServer), ctx, req.(*Req))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc — дескриптор для grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProfilesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetSelfProfile", ProfilesServiceServer.GetSelfProfile),
		unary("SaveSelfProfile", ProfilesServiceServer.SaveSelfProfile),
		unary("ListProfiles", ProfilesServiceServer.ListProfiles),
		unary("GetProfile", ProfilesServiceServer.GetProfile),
		unary("SaveProfile", ProfilesServiceServer.SaveProfile),
		unary("DeleteProfile", ProfilesServiceServer.DeleteProfile),
		unary("UploadPhoto", ProfilesServiceServer.UploadPhoto),
		unary("DeletePhoto", ProfilesServiceServer.DeletePhoto),
		unary("ListPhotos", ProfilesServiceServer.ListPhotos),
		unary("UpcomingBirthdays", ProfilesServiceServer.UpcomingBirthdays),
		unary("GiftIdeas", ProfilesServiceServer.GiftIdeas),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "valet/profiles/v1",
}

// RegisterProfilesServiceServer регистрирует реализацию на gRPC-сервере.
func RegisterProfilesServiceServer(s grpc.ServiceRegistrar, srv ProfilesServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ProfilesServiceClient — клиент ProfilesService поверх JSON-кодека.
type ProfilesServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProfilesServiceClient(cc grpc.ClientConnInterface) *ProfilesServiceClient {
	return &ProfilesServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *ProfilesServiceClient) GetSelfProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, "GetSelfProfile", in, opts)
}

func (c *ProfilesServiceClient) SaveSelfProfile(ctx context.Context, in *SaveSelfProfileRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, "SaveSelfProfile", in, opts)
}

func (c *ProfilesServiceClient) ListProfiles(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListProfilesResponse, error) {
	return invoke[ListProfilesResponse](ctx, c.cc, "ListProfiles", in, opts)
}

func (c *ProfilesServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, "GetProfile", in, opts)
}

func (c *ProfilesServiceClient) SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, "SaveProfile", in, opts)
}

func (c *ProfilesServiceClient) DeleteProfile(ctx context.Context, in *DeleteProfileRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeleteProfile", in, opts)
}

func (c *ProfilesServiceClient) UploadPhoto(ctx context.Context, in *UploadPhotoRequest, opts ...grpc.CallOption) (*UploadPhotoResponse, error) {
	return invoke[UploadPhotoResponse](ctx, c.cc, "UploadPhoto", in, opts)
}

func (c *ProfilesServiceClient) DeletePhoto(ctx context.Context, in *DeletePhotoRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "DeletePhoto", in, opts)
}

func (c *ProfilesServiceClient) ListPhotos(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListPhotosResponse, error) {
	return invoke[ListPhotosResponse](ctx, c.cc, "ListPhotos", in, opts)
}

func (c *ProfilesServiceClient) UpcomingBirthdays(ctx context.Context, in *UpcomingBirthdaysRequest, opts ...grpc.CallOption) (*UpcomingBirthdaysResponse, error) {
	return invoke[UpcomingBirthdaysResponse](ctx, c.cc, "UpcomingBirthdays", in, opts)
}

func (c *ProfilesServiceClient) GiftIdeas(ctx context.Context, in *GiftIdeasRequest, opts ...grpc.CallOption) (*GiftIdeasResponse, error) {
	return invoke[GiftIdeasResponse](ctx, c.cc, "GiftIdeas", in, opts)
}
