// Package client submits WOQL documents to a server over HTTP.
//
// A Client implements woql.Executor:
//
//	c, err := client.New(client.Options{Server: "https://host", Database: "db1", Key: key})
//	res, err := woql.New().Triple("v:S", "v:P", "v:O").Execute(ctx, c)
//
// Requests carry HTTP Basic auth with an empty user and the API key as
// password, and an X-Request-ID header for tracing. Request counts and
// latency are exported as Prometheus metrics.
package client
