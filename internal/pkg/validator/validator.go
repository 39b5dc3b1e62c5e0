package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/geohash-service/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация структуры; ошибки полей возвращаются как ErrInvalidRequest
// с деталями {"fields": {"<Struct.Field>": "<tag>"}}.
// Доменные правила (длина, диапазоны, число потоков) проверяются в codec/batch,
// чтобы клиент получал типизированный код ошибки.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrInvalidRequest.Wrap(err)
	}

	fields := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"fields": fields})
}
