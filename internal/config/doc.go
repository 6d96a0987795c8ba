// Package config loads, validates, and normalizes inkwell configuration.
//
// Configuration is TOML with sections per subsystem: directories,
// provider credentials and timeouts, per-capability pricing, and
// logging. Provider credentials may also come from the environment
// (DATAFORSEO_LOGIN, DATAFORSEO_PASSWORD, SERPAPI_API_KEY,
// PERPLEXITY_API_KEY, OPENAI_API_KEY).
package config
