// Package api is the service layer the CLI talks to. It assembles the
// provider gateway from configuration, owns session submission and the
// registry of in-flight runs, and exposes progress, result, and cancel
// operations with typed errors.
package api
