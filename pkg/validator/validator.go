package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate = v
		// Gin 默认的 binding 校验器就是 go-playground/validator，这里注册业务自定义规则
		_ = validate.RegisterValidation("target_kind", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "general", "event", "campaign":
				return true
			}
			return false
		})
		_ = validate.RegisterValidation("u128", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return false
			}
			for _, r := range s {
				if r < '0' || r > '9' {
					return false
				}
			}
			return len(s) <= 39
		})
	}
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
			case "min":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 至少为 %s", field, param))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能超过 %s", field, param))
			case "oneof":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 [%s] 之一", field, param))
			case "target_kind":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 general/event/campaign 之一", field))
			case "u128":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是无符号整数字符串", field))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "请求参数错误"
}
