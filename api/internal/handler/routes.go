package handler

import (
	"net/http"

	"PortfolioAgent/api/internal/middleware"
	"PortfolioAgent/api/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	auth := middleware.NewAuthMiddleware(svcCtx.Config.Auth.Token)
	cron := middleware.NewAuthMiddleware(svcCtx.Config.Auth.CronSecret)

	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{auth.Handle},
			[]rest.Route{
				{
					Method:  http.MethodPost,
					Path:    "/ask",
					Handler: AskHandler(svcCtx),
				},
				{
					Method:  http.MethodPost,
					Path:    "/feedback",
					Handler: FeedbackHandler(svcCtx),
				},
			}...,
		),
	)

	//同步接口用独立令牌，避免前端令牌能触发重建
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{cron.Handle},
			[]rest.Route{
				{
					Method:  http.MethodPost,
					Path:    "/sync-knowledge",
					Handler: SyncKnowledgeHandler(svcCtx),
				},
			}...,
		),
	)
}
