package admin

import (
	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mappedHandlerError = handlershared.MappedError

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondWithMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var orderUpdateErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrCallerRequired, Code: response.CodeBadRequest, Key: "error.caller_required"},
	{Target: service.ErrGatewayRefRequired, Code: response.CodeBadRequest, Key: "error.gateway_ref_required"},
}

var printSizeErrorRules = []mappedHandlerError{
	{Target: service.ErrPrintSizeNotFound, Code: response.CodeNotFound, Key: "error.print_size_not_found"},
	{Target: service.ErrPrintSizeExists, Code: response.CodeConflict, Key: "error.print_size_exists"},
	{Target: service.ErrPrintSizeInvalid, Code: response.CodeBadRequest, Key: "error.print_size_invalid"},
}

var userUpdateErrorRules = []mappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrAffiliateCodeExists, Code: response.CodeBadRequest, Key: "error.affiliate_code_exists"},
}

var statsErrorRules = []mappedHandlerError{
	{Target: service.ErrDateRangeInvalid, Code: response.CodeBadRequest, Key: "error.date_range_invalid"},
}
