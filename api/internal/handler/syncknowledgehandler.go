package handler

import (
	"errors"
	"net/http"

	"PortfolioAgent/api/internal/logic"
	"PortfolioAgent/api/internal/svc"
	"PortfolioAgent/api/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 知识同步接口，由定时任务触发
func SyncKnowledgeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewSyncLogic(r.Context(), svcCtx)
		resp, err := l.Sync()
		if err != nil {
			if errors.Is(err, types.ErrSourceUnavailable) {
				httpx.WriteJsonCtx(r.Context(), w, http.StatusInternalServerError,
					types.ErrorResp{Error: "no knowledge source produced content"})
				return
			}
			httpx.WriteJsonCtx(r.Context(), w, http.StatusInternalServerError,
				types.ErrorResp{Error: err.Error()})
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
