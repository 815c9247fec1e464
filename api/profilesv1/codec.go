package profilesv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName — content-subtype кодека: "application/grpc+json".
const CodecName = "json"

// ErrorDomain — домен google.rpc.ErrorInfo в деталях статуса InvalidArgument.
// ErrorInfo.Reason — причина отказа валидации, Metadata["field"] — поле.
const ErrorDomain = "valet.profiles.v1"

// ReasonInvalidFormat — запрос не прошёл проверку формата (дата, UUID, лимиты).
// Доменные причины совпадают с models.Reason (missing_name и т.п.).
const ReasonInvalidFormat = "invalid_format"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec сериализует сообщения ProfilesService в JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("profilesv1: marshal %T: %w", v, err)
	}

	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("profilesv1: unmarshal %T: %w", v, err)
	}

	return nil
}

func (Codec) Name() string {
	return CodecName
}
