// Package logging centralizes slog construction and the structured
// field vocabulary used across the pipeline. All components receive a
// *slog.Logger; handlers (console or JSON) are chosen by configuration.
package logging
