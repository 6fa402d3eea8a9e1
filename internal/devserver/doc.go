// Package devserver serves a store-backed app over HTTP and WebSocket.
//
// GET / returns the server-rendered page. The page opens /ws, where each
// connection gets its own session: a host.Root with its own Provider mount
// and therefore its own store container. Clients send
//
//	{"type":"click","id":"btn1"}
//	{"type":"update","partial":{"numberProp":5}}
//
// and receive the re-rendered tree:
//
//	{"type":"render","html":"...","version":3}
//	{"type":"error","error":"..."}
//
// GET /metrics exposes Prometheus metrics and GET /healthz reports liveness.
package devserver
