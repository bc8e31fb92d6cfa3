package controllers

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBodySize caps JSON bodies read for partial updates.
const maxBodySize = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns the first validator failure into a client message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Validation failed"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// bindJSON decodes the request body into dst and runs struct validation.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.BadRequest(validationMessage(err))
	}
	return nil
}

// bindJSONList decodes a JSON array and validates every element.
func bindJSONList[T any](c *gin.Context) ([]T, error) {
	var items []T
	if err := c.ShouldBindJSON(&items); err != nil {
		return nil, apperrors.BadRequest("Invalid request body")
	}
	if len(items) == 0 {
		return nil, apperrors.BadRequest("Request body is empty")
	}
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("%s (item %d)", validationMessage(err), i+1))
		}
	}
	return items, nil
}

// readBody returns the raw body for partial updates.
func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.BadRequest("Invalid request body")
	}
	return body, nil
}

func paramID(c *gin.Context) (primitive.ObjectID, error) {
	return services.ParseID(c.Param("id"))
}

// pagination reads page and limit, leaving range checks to services.NormalizePage.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))
	return page, limit
}

func queryBool(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}
