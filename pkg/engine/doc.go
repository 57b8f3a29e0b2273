// Package engine serves a route registry over HTTP.
//
// Every accepted route of the registry is bound on a gorilla/mux router,
// mounted under the configured prefix:
//
//   - the canonical routes of a restful file are answered by its
//     stateful.Resource (list, create, retrieve, replace, patch, delete)
//   - actions and apis answer with their fixed response: headers first, then
//     a JSON, file or text body
//
// The router is rebuilt whenever the registry changes and swapped in
// atomically. Server.Watch feeds file watcher events into the registry,
// which is how hot reload works.
//
// Requests without a matching path get a 404 text response, requests for a
// bound path with another method get a 405 {"detail": ...} response. Every
// response carries an X-Request-Id header.
package engine
