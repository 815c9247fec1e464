package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToHTTP_Mapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", status.Error(codes.InvalidArgument, "x"), http.StatusBadRequest, "invalid_argument"},
		{"unauth", status.Error(codes.Unauthenticated, "x"), http.StatusUnauthorized, "unauthenticated"},
		{"not_found", status.Error(codes.NotFound, "x"), http.StatusNotFound, "not_found"},
		{"canceled", status.Error(codes.Canceled, "x"), StatusClientClosedRequest, "canceled"},
		{"unavailable", status.Error(codes.Unavailable, "x"), http.StatusServiceUnavailable, "store_unavailable"},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"data_loss", status.Error(codes.DataLoss, "x"), http.StatusInternalServerError, "internal"},
		{"internal", status.Error(codes.Internal, "x"), http.StatusInternalServerError, "internal"},
		{"plain_error", errors.New("boom"), http.StatusInternalServerError, "internal"},
		{"nil", nil, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
			require.Empty(t, resp.Error.Reason)
		})
	}
}

// Сообщение статуса (с op и деталями) наружу не попадает.
func TestToHTTP_DoesNotLeakStatusMessage(t *testing.T) {
	_, resp := ToHTTP(status.Error(codes.NotFound, "service/profiles/Load: pg: relation missing"))
	require.Equal(t, "not found", resp.Error.Message)
}

func TestToHTTP_ValidationReason(t *testing.T) {
	st, err := status.New(codes.InvalidArgument, "bad").WithDetails(&errdetails.ErrorInfo{
		Reason:   "missing_name",
		Domain:   profilesv1.ErrorDomain,
		Metadata: map[string]string{"field": "name"},
	})
	require.NoError(t, err)

	code, resp := ToHTTP(st.Err())
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "missing_name", resp.Error.Reason)
	require.Equal(t, "name", resp.Error.Field)

	// Чужой домен игнорируется.
	st, err = status.New(codes.InvalidArgument, "bad").WithDetails(&errdetails.ErrorInfo{Reason: "X", Domain: "other"})
	require.NoError(t, err)

	_, resp = ToHTTP(st.Err())
	require.Empty(t, resp.Error.Reason)
}

func TestWriteError_RequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	r.Header.Set("X-Request-Id", "rid-1")
	w := httptest.NewRecorder()

	WriteError(w, r, status.Error(codes.Unavailable, "x"))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "rid-1", body.Error.RequestID)
	require.Equal(t, "store_unavailable", body.Error.Code)
}
