// Package api serves the render pipeline over HTTP.
//
// Every endpoint takes a scene document as its JSON request body:
//
//	POST /v1/render?format=svg|png    render the scene
//	POST /v1/topology?format=dot|svg  draw the ownership tree
//	POST /v1/normalize                import, repair and re-export
//	GET  /healthz                     liveness and build version
//
// Render options travel as query parameters: scale, grid, abstract,
// background, font, embed_font and refresh. Responses carry the document
// hash in X-Document-Hash and the cache outcome in X-Cache.
//
// Errors are JSON objects of the form
//
//	{"error": {"code": "UNSUPPORTED", "message": "unsupported format \"gif\" ..."}}
//
// with the status taken from [errors.HTTPStatus].
package api
