package handler

import (
	"errors"
	"net/http"

	"PortfolioAgent/api/internal/logic"
	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 反馈接口
func FeedbackHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FeedbackReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest,
				types.ErrorResp{Error: "invalid request body"})
			return
		}

		l := logic.NewFeedbackLogic(r.Context(), svcCtx)
		resp, err := l.Feedback(&req)
		if err != nil {
			if errors.Is(err, logic.ErrBadFeedback) {
				httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest,
					types.ErrorResp{Error: "feedback must be Yes or No"})
				return
			}
			httpx.WriteJsonCtx(r.Context(), w, http.StatusInternalServerError,
				types.ErrorResp{Error: "failed to store feedback"})
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
