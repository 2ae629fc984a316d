package middleware

// gin.Context 里约定的键
const (
	CtxUserID = "uid"
	CtxRole   = "role"
	CtxBanned = "banned"
)
