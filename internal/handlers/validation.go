package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/agiliza-api/internal/errors"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(requestFieldName)
	}
}

// requestFieldName reports fields by the name clients send them under.
func requestFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// respondBindError answers 400 for a request that failed to bind. Rule
// violations are listed per field under details.
func respondBindError(c *gin.Context, err error, message string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, message)
		return
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	apierrors.BadRequestWithDetails(c, message, details)
}
