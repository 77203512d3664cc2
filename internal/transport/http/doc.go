// Package http implements the HTTP handlers of the dashboard API.
//
// Handlers are thin: they parse query and path parameters, call the
// service layer and render JSON with go-chi/render. Every failure is
// passed to the shared ErrorHandler and answered as RFC 7807 problem
// details.
//
// The filter is shared by every dashboard route and read from the query
// string:
//
//	from, to     inclusive dates as YYYY-MM-DD
//	commodities  comma separated; present but empty selects none
//	rate         buy or sell
//
// Omitted parameters take the defaults of the loaded data: its full date
// range, every commodity and the buy rate.
package http
