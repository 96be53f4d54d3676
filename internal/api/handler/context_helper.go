package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ArtoriasSif/KubHubSystem-gp13-DAM-sub001/pkg/response"
)

// parseIDParam 解析路径中的正整数 ID。
// 非法时写入 400 响应并返回 false，调用方应直接 return。
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "ID 格式无效")
		return 0, false
	}
	return id, true
}
