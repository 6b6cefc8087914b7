package handler

import (
	"errors"
	"net/http"

	"PortfolioAgent/api/internal/logic"
	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 问答接口
func AskHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AskReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest,
				types.ErrorResp{Error: "invalid request body"})
			return
		}

		l := logic.NewAskLogic(r.Context(), svcCtx)
		resp, err := l.Ask(&req)
		if err != nil {
			writeAskError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func writeAskError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, types.ErrNoQuestion) {
		httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest,
			types.ErrorResp{Error: "messages must not be empty"})
		return
	}

	//问答失败只暴露固定话术，原始诊断已写日志
	var answerErr *types.AnswerError
	if errors.As(err, &answerErr) {
		resp := types.ErrorResp{Error: answerErr.Message}
		if answerErr.Cause != nil {
			resp.Details = answerErr.Cause.Error()
		}
		httpx.WriteJsonCtx(r.Context(), w, http.StatusInternalServerError, resp)
		return
	}

	httpx.WriteJsonCtx(r.Context(), w, http.StatusInternalServerError,
		types.ErrorResp{Error: types.AnswerInternalError})
}
