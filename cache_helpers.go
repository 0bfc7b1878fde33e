package main

import (
	"fmt"

	"lyrics-fetch-go/services/providers/kg"
	"lyrics-fetch-go/services/providers/ne"
	"lyrics-fetch-go/translate/openai"
)

// stringifyKeys converts a cache.Dump() result (keyed by arbitrary
// comparable values, e.g. struct cache keys) to a JSON-safe map keyed by
// their %v representation.
func stringifyKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprintf("%v", k)] = v
	}
	return out
}

// dumpCaches snapshots every in-memory TTL cache in the process for the
// /cache/dump debug endpoint: each provider's bootstrap session cache and
// the shared OpenAI translation cache. Providers with no cache of their own
// (lrclib, qm) contribute nothing.
func dumpCaches() map[string]map[string]any {
	return map[string]map[string]any{
		"kg":          stringifyKeys(kg.DumpCache()),
		"ne":          stringifyKeys(ne.DumpCache()),
		"translation": stringifyKeys(openai.DumpCache()),
	}
}

// clearCaches empties every in-memory TTL cache in the process.
func clearCaches() {
	kg.ClearCache()
	ne.ClearCache()
	openai.ClearCache()
}
