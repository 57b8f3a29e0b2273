// Package config loads resource configuration files for the mock server.
//
// A resource file describes one virtual REST resource, a set of plain
// request/response pairs, or both:
//
//	{
//	  "restful": "/api/users/",
//	  "pk_field": "id",
//	  "page_size": 20,
//	  "filter_fields": {"name": ["exact", "contains"], "age": ["range", "gte"]},
//	  "search_fields": ["name"],
//	  "ordering_fields": ["id", "name"],
//	  "ordering": ["-id"],
//	  "rules": {"name": {"type": "string", "required": true}},
//	  "rows": [{"id": 1, "name": "alice", "age": 31}],
//	  "actions": [
//	    {"method": "POST", "url_path": "reset", "detail": true, "response": {"code": 204}}
//	  ],
//	  "apis": [
//	    {"method": "GET", "path": "/api/health", "response": {"json": {"ok": true}}}
//	  ]
//	}
//
// Files may be JSON (.json) or YAML (.yaml, .yml). Every file is checked
// against an embedded JSON Schema before it is decoded; failures are reported
// as *InvalidError.
//
// DirectoryLoader finds resource files below a path using a doublestar glob
// and Watcher reports changes to them through fsnotify.
package config
