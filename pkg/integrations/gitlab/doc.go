// Package gitlab provides an HTTP client for the GitLab REST API (v4).
//
// # Overview
//
// The client covers the read-only calls the repository browser needs:
//
//   - [Client.Projects]: projects of a group (or all visible projects)
//   - [Client.Tree]: one level of a repository tree
//   - [Client.RawFile]: the raw contents of one file at a ref
//
// # Usage
//
//	client := gitlab.NewClient(backend, gitlab.Config{
//	    URL:          "https://gitlab.example.com",
//	    PrivateToken: token,
//	    GroupID:      "42",
//	}, time.Hour)
//	projects, err := client.Projects(ctx, false)
//
// # Authentication
//
// A personal access token is sent as the PRIVATE-TOKEN header. Without a
// token, only public projects are visible.
//
// # Misconfiguration
//
// A GitLab instance behind an SSO proxy answers unauthenticated API calls
// with an HTML login page and status 200. JSON calls therefore require a
// JSON content type and fail with [integrations.ErrUnexpectedContent]
// otherwise.
package gitlab
