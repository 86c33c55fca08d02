// Package gateway serves the javelin HTTP API by proxying a Nexus registry
// and a GitLab instance.
//
// Routes:
//
//	GET /api/nexus/search?q=                      latest search, release + snapshot repositories
//	GET /api/nexus/search?group=&name=            every version of one artifact
//	GET /api/nexus/search?q=&repository=          search a single repository
//	GET /api/nexus/dependency?g=&a=&v=            {"pom": ..., "gradle": ...}
//	GET /api/gitlab/projects                      repositories
//	GET /api/gitlab/projects/{id}/repository/tree?path=
//	GET /api/gitlab/projects/{id}/repository/files/raw?path=
//
// Every route accepts refresh=true to bypass the upstream response cache.
// Errors are JSON objects with "code" and "error" fields and a status from
// [errors.HTTPStatus].
//
// [errors.HTTPStatus]: github.com/matzehuels/javelin/pkg/errors.HTTPStatus
package gateway
