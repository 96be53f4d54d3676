package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/internal/scheduling"
)

// RegisterValidators 在 gin 的校验引擎上注册自定义标签，启动时调用一次
//
//   - weekday：星期编码，大小写不敏感（"MONDAY" / "monday"）
//
// 是否为教学日由时段目录判定，这里只校验编码本身。
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("weekday", validateWeekday)
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseWeekday(fl.Field().String())
	return err == nil
}
