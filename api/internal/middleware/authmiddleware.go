package middleware

import (
	"net/http"

	"PortfolioAgent/api/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// Bearer令牌校验。问答/反馈用前端令牌，同步接口用独立的定时任务令牌。
type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: secret}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		//密钥未配置时一律拒绝，避免空对空通过
		if m.secret == "" || r.Header.Get("Authorization") != "Bearer "+m.secret {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusUnauthorized,
				types.ErrorResp{Error: "Unauthorized"})
			return
		}
		next(w, r)
	}
}
