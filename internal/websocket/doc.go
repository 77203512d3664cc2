// Package websocket serves the live dashboard endpoint.
//
// A client sends run requests and receives one result per request:
//
//	-> {"id":"1","criteria":{"from":"2024-01-01","rate":"sell"},"mode":"trends"}
//	<- {"type":"result","id":"1","result":{...}}
//
// Failures are answered with {"type":"error"} and an RFC 7807 problem.
// Requests on a connection are handled one at a time, in order.
package websocket
