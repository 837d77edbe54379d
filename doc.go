// File: lixenwraith/property/doc.go

// Package property provides typed, cached configuration declarations backed by
// resource files, system properties and environment variables.
//
// Features:
//   - Process-wide ResourceCache shared by all declarations, with three policies:
//     no-cache, cache-forever (single-flight first read) and cache-on-change
//     (re-read when the file's modification time or size changes)
//   - Per-declaration caches: NoCache, Memory and RefreshMemory
//   - Decoders for strings, integers, booleans, delimited lists, prefix maps,
//     prefix maps of lists and structs
//   - Resource files in .properties, TOML, YAML or JSON, read with a strict charset
//   - Thread-safe: declarations may be shared across goroutines
//
// Quick Start:
//
//	rc := property.NewResourceCache(property.WithRoot("conf"))
//
//	port := property.Define(rc, "app.properties", "server.port", 8080, property.Int())
//	hosts := property.DefineUpdateCheck(rc, "app.properties", "server.hosts",
//	    []string{"localhost"}, property.StringList())
//	home := property.DefineEnv(rc, "HOME", "/", property.String())
//
//	p, err := port.Get()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h := hosts.Value() // best effort: logs and falls back to the default
//
// Absence is never an error: a missing key, an empty value or an empty prefix
// match resolves to the declaration's default. Unreadable sources, failed
// freshness checks and malformed values are returned as errors.
package property
