// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"gridscope-api/internal/config"
	"gridscope-api/internal/handler"
	"gridscope-api/internal/svc"
)

var configFile = flag.String("f", "etc/gridscope.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(*cfg, *configFile)
	handler.RegisterHandlers(server, ctx)
	httpx.SetErrorHandlerCtx(handler.MapError)

	if ctx.Refresher != nil {
		refreshCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := ctx.Refresher.Run(refreshCtx); err != nil && refreshCtx.Err() == nil {
				logx.Errorf("snapshot refresher exited: %v", err)
			}
		}()
		defer ctx.Refresher.Stop()
	}

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
