package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/permissions"
	"github.com/monocle-dev/house/internal/types"
)

// GetCaller returns the authenticated caller, or nil for anonymous requests.
func GetCaller(ctx *gin.Context) *permissions.Caller {
	v, exists := ctx.Get(types.ContextCallerKey)
	if !exists {
		return nil
	}

	caller, ok := v.(*permissions.Caller)
	if !ok {
		return nil
	}

	return caller
}

func SetCaller(ctx *gin.Context, caller *permissions.Caller) {
	ctx.Set(types.ContextCallerKey, caller)
}
