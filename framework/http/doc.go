// Package http provides request and response helpers for handlers mounted
// on the framework router.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	count := req.QueryInt("count", 1, 1, 16)
//	name  := req.RouteParam("name")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)                          // 200 {"data": ...}
//	res.Error(http.StatusNotFound, "no node")  // 404 {"message": ...}
//	res.ServerError()                          // 500
package http
