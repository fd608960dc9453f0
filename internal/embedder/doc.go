// Package embedder generates query embeddings for the semantic search path.
//
// Bookmark embeddings are written by the external enrichment pipeline; the
// engine only embeds the query text at search time. Three providers exist:
//
//   - openai: OpenAI embeddings API (OPENAI_API_KEY)
//   - ollama: local Ollama server (OLLAMA_HOST, default localhost:11434)
//   - local: deterministic hash-seeded vectors for offline use and tests
//
// NewFromEnv picks a provider from LINKSTASH_EMBEDDING_PROVIDER or
// auto-detects from available configuration. Generated embeddings are
// cached by content hash in an LRU, so repeated queries skip the API call.
package embedder
