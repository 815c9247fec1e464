// grpc содержит реализацию gRPC-эндпоинтов ProfilesService.
//
// Принципы:
//   - Владелец берётся только из контекста (его кладёт auth-интерсептор);
//   - Входные данные валидируются на уровне транспорта (UUID, даты, лимиты);
//   - Ошибки сервиса маппятся в коды gRPC:
//     ErrInvalidArgument -> codes.InvalidArgument (+ google.rpc.ErrorInfo с причиной);
//     ErrNotFound        -> codes.NotFound;
//     ErrCorruptRecord   -> codes.DataLoss;
//     ErrStoreFailure    -> codes.Unavailable (повтор решает клиент);
//     иные               -> codes.Internal (единое безопасное сообщение).
package grpc

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"github.com/pribylovaa/valet/internal/auth"
	"github.com/pribylovaa/valet/internal/models"
	"github.com/pribylovaa/valet/internal/service"
	"github.com/pribylovaa/valet/internal/storage"
	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ProfilesServer struct {
	service  *service.Service
	validate *validator.Validate
}

var _ profilesv1.ProfilesServiceServer = (*ProfilesServer)(nil)

// NewProfilesServer создаёт gRPC-сервер ProfilesService.
func NewProfilesServer(svc *service.Service) *ProfilesServer {
	return &ProfilesServer{
		service:  svc,
		validate: newValidator(),
	}
}

// newValidator — поля в ошибках называются по json-тегам, как их видит клиент.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func ownerFrom(ctx context.Context, op string) (uuid.UUID, error) {
	owner, ok := auth.OwnerFrom(ctx)
	if !ok {
		return uuid.Nil, status.Errorf(codes.Unauthenticated, "%s: unauthenticated", op)
	}

	return owner, nil
}

// check валидирует формат запроса; первое нарушение уходит клиенту в ErrorInfo
// с причиной invalid_format.
func (s *ProfilesServer) check(op string, req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	st := status.Newf(codes.InvalidArgument, "%s: %v", op, err)

	var fe validator.ValidationErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		// Namespace: "SaveProfileRequest.profile.birthday" -> "profile.birthday".
		_, field, _ := strings.Cut(fe[0].Namespace(), ".")
		st = withReason(st, profilesv1.ReasonInvalidFormat, field)
	}

	return st.Err()
}

func withReason(st *status.Status, reason, field string) *status.Status {
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   profilesv1.ErrorDomain,
		Metadata: map[string]string{"field": field},
	})
	if err != nil {
		return st
	}

	return detailed
}

func parseID(op, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s: invalid id: %v", op, err)
	}

	return id, nil
}

// toStatus маппит ошибку сервиса в gRPC-статус.
func toStatus(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		st := status.Newf(codes.InvalidArgument, "%s: %v", op, err)

		var ve *models.ValidationError
		if errors.As(err, &ve) {
			st = withReason(st, string(ve.Reason), ve.Field)
		}

		return st.Err()
	case errors.Is(err, service.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s: %v", op, err)
	case errors.Is(err, storage.ErrCorruptRecord):
		return status.Error(codes.DataLoss, "stored profile is corrupt")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, service.ErrStoreFailure):
		return status.Error(codes.Unavailable, "store unavailable, retry later")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// GetSelfProfile возвращает собственный профиль владельца.
// Профиль ещё не создан -> NotFound.
func (s *ProfilesServer) GetSelfProfile(ctx context.Context, _ *profilesv1.Empty) (*profilesv1.Profile, error) {
	const op = "transport/grpc/profiles/GetSelfProfile"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	v, err := s.service.SelfProfile(ctx, owner)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return toProfile(v), nil
}

// SaveSelfProfile создаёт или перезаписывает собственный профиль полным снимком.
func (s *ProfilesServer) SaveSelfProfile(ctx context.Context, req *profilesv1.SaveSelfProfileRequest) (*profilesv1.Profile, error) {
	const op = "transport/grpc/profiles/SaveSelfProfile"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := s.check(op, req); err != nil {
		return nil, err
	}

	fields, err := toFields(req.Profile)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	}

	v, err := s.service.SaveSelfProfile(ctx, owner, fields)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return toProfile(v), nil
}

// ListProfiles возвращает близких владельца, новые первыми.
func (s *ProfilesServer) ListProfiles(ctx context.Context, _ *profilesv1.Empty) (*profilesv1.ListProfilesResponse, error) {
	const op = "transport/grpc/profiles/ListProfiles"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	list, err := s.service.Profiles(ctx, owner)
	if err != nil {
		return nil, toStatus(op, err)
	}

	resp := &profilesv1.ListProfilesResponse{Profiles: make([]*profilesv1.Profile, 0, len(list))}
	for _, v := range list {
		resp.Profiles = append(resp.Profiles, toProfile(v))
	}

	return resp, nil
}

// GetProfile возвращает близкого по id. Чужой профиль неотличим от отсутствующего.
func (s *ProfilesServer) GetProfile(ctx context.Context, req *profilesv1.GetProfileRequest) (*profilesv1.Profile, error) {
	const op = "transport/grpc/profiles/GetProfile"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	id, err := parseID(op, req.ID)
	if err != nil {
		return nil, err
	}

	v, err := s.service.Profile(ctx, owner, id)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return toProfile(v), nil
}

// SaveProfile создаёт близкого (пустой id) или обновляет существующего.
func (s *ProfilesServer) SaveProfile(ctx context.Context, req *profilesv1.SaveProfileRequest) (*profilesv1.Profile, error) {
	const op = "transport/grpc/profiles/SaveProfile"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := s.check(op, req); err != nil {
		return nil, err
	}

	id := uuid.Nil
	if strings.TrimSpace(req.ID) != "" {
		if id, err = parseID(op, req.ID); err != nil {
			return nil, err
		}
	}

	fields, err := toFields(req.Profile)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	}

	v, err := s.service.SaveProfile(ctx, owner, id, fields)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return toProfile(v), nil
}

func (s *ProfilesServer) DeleteProfile(ctx context.Context, req *profilesv1.DeleteProfileRequest) (*profilesv1.Empty, error) {
	const op = "transport/grpc/profiles/DeleteProfile"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	id, err := parseID(op, req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.service.DeleteProfile(ctx, owner, id); err != nil {
		return nil, toStatus(op, err)
	}

	return &profilesv1.Empty{}, nil
}

// UploadPhoto загружает изображение и возвращает публичный URL.
// В профиль URL попадает следующим сохранением.
func (s *ProfilesServer) UploadPhoto(ctx context.Context, req *profilesv1.UploadPhotoRequest) (*profilesv1.UploadPhotoResponse, error) {
	const op = "transport/grpc/profiles/UploadPhoto"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := s.check(op, req); err != nil {
		return nil, err
	}

	variant, err := models.ParseVariant(req.Variant)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	}

	url, err := s.service.UploadPhoto(ctx, owner, variant, req.Data)
	if err != nil {
		return nil, toStatus(op, err)
	}

	return &profilesv1.UploadPhotoResponse{URL: url}, nil
}

func (s *ProfilesServer) DeletePhoto(ctx context.Context, req *profilesv1.DeletePhotoRequest) (*profilesv1.Empty, error) {
	const op = "transport/grpc/profiles/DeletePhoto"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := s.check(op, req); err != nil {
		return nil, err
	}

	if err := s.service.DeletePhoto(ctx, owner, req.Ref); err != nil {
		return nil, toStatus(op, err)
	}

	return &profilesv1.Empty{}, nil
}

func (s *ProfilesServer) ListPhotos(ctx context.Context, _ *profilesv1.Empty) (*profilesv1.ListPhotosResponse, error) {
	const op = "transport/grpc/profiles/ListPhotos"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	photos, err := s.service.ListPhotos(ctx, owner)
	if err != nil {
		return nil, toStatus(op, err)
	}

	resp := &profilesv1.ListPhotosResponse{Photos: make([]profilesv1.Photo, 0, len(photos))}
	for _, p := range photos {
		resp.Photos = append(resp.Photos, toPhoto(p))
	}

	return resp, nil
}

// UpcomingBirthdays — близкие с днём рождения в пределах окна (0 — окно из конфига).
func (s *ProfilesServer) UpcomingBirthdays(ctx context.Context, req *profilesv1.UpcomingBirthdaysRequest) (*profilesv1.UpcomingBirthdaysResponse, error) {
	const op = "transport/grpc/profiles/UpcomingBirthdays"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := s.check(op, req); err != nil {
		return nil, err
	}

	list, err := s.service.UpcomingBirthdays(ctx, owner, req.Days)
	if err != nil {
		return nil, toStatus(op, err)
	}

	resp := &profilesv1.UpcomingBirthdaysResponse{Birthdays: make([]profilesv1.UpcomingBirthday, 0, len(list))}
	for _, b := range list {
		resp.Birthdays = append(resp.Birthdays, profilesv1.UpcomingBirthday{
			Profile:   toProfile(b.Profile),
			DaysUntil: b.DaysUntil,
			Date:      formatDate(b.Next),
		})
	}

	return resp, nil
}

// GiftIdeas — идеи подарков близкого, при заданном maxPrice только в пределах бюджета.
func (s *ProfilesServer) GiftIdeas(ctx context.Context, req *profilesv1.GiftIdeasRequest) (*profilesv1.GiftIdeasResponse, error) {
	const op = "transport/grpc/profiles/GiftIdeas"

	owner, err := ownerFrom(ctx, op)
	if err != nil {
		return nil, err
	}

	if err := s.check(op, req); err != nil {
		return nil, err
	}

	id, err := parseID(op, req.ID)
	if err != nil {
		return nil, err
	}

	var maxPrice *decimal.Decimal
	if req.MaxPrice != "" {
		d, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s: invalid max_price: %v", op, err)
		}
		maxPrice = &d
	}

	ideas, err := s.service.GiftIdeas(ctx, owner, id, maxPrice)
	if err != nil {
		return nil, toStatus(op, err)
	}

	resp := &profilesv1.GiftIdeasResponse{GiftIdeas: make([]profilesv1.GiftIdea, 0, len(ideas))}
	for _, g := range ideas {
		resp.GiftIdeas = append(resp.GiftIdeas, fromGiftIdea(g))
	}

	return resp, nil
}
