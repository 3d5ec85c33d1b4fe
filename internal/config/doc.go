// Package config loads the user settings and configuration profiles.
//
// Settings live in a JSONC file (comments and trailing commas are
// tolerated, stripped via github.com/tidwall/jsonc before parsing with
// encoding/json). A missing file yields the defaults. Settings carry the
// workspaces root, the database path, the profiles file path, and the
// credential entries the engine injects into HTTPS remotes.
//
// Profiles are named sets of files defined in YAML and materialized into
// a workspace's working copy on assignment.
package config
