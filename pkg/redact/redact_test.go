package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEmail_Table — валидный адрес, короткая локальная часть,
// невалидный формат, Unicode и пустые части.
func TestEmail_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii_local_gt_2", in: "foobar@example.com", want: "fo***@example.com"},
		{name: "ascii_local_len_2", in: "ab@ex.com", want: "***@ex.com"},
		{name: "no_at", in: "no-at-here", want: "***"},
		{name: "multiple_at", in: "a@b@c", want: "***"},
		{name: "empty", in: "", want: "***"},
		{name: "unicode_local", in: "юзер@пример.рф", want: "юз***@пример.рф"},
		{name: "empty_local", in: "@domain", want: "***@domain"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestBearer(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Bearer [REDACTED_TOKEN]", Bearer("Bearer eyJhbGciOi..."))
	require.Equal(t, "[REDACTED_TOKEN]", Bearer("eyJhbGciOi"))
	require.Empty(t, Bearer(""))
}
