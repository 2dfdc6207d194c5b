package netsvr

import (
	"net/http"

	"github.com/zintix-labs/drawlab/server/app"
)

// NetSvr 是 drawlab HTTP 服務的路由與啟停介面，只交給 server.RunWithSvr 持有。
// 本身即 app.Component，可直接交給 app.App 管理。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 只有註冊能力；api 與 v1 子群組拿到的都是 NetRouter，無法控制啟停。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)
	Handle(path string, h http.Handler)

	Group(path string, fn func(NetRouter))
}
