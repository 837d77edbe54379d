// FILE: lixenwraith/property/example/main.go
package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lixenwraith/property"
)

// ServerSettings is filled by the struct decoder from "server.*" entries
type ServerSettings struct {
	Host    string        `property:"host"`
	Port    int           `property:"port"`
	Timeout time.Duration `property:"timeout"`
	Tags    []string      `property:"tags"`
}

const initialProperties = `# application settings
server.host=localhost
server.port=8080
server.timeout=30s
server.tags=blue;green
feature.metrics=true
feature.tracing=false
pool.0=a;b
pool.1=c;d
`

const updatedProperties = `# application settings
server.host=0.0.0.0
server.port=9090
server.timeout=1m
server.tags=red
feature.metrics=false
pool.0=x
`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Create a resource root with one properties file.
	// =========================================================================
	log.Println("---")
	log.Println("PART 1: Creating resource root...")

	root, err := os.MkdirTemp("", "property-example-*")
	if err != nil {
		log.Fatalf("Failed to create resource root: %v", err)
	}
	defer os.RemoveAll(root)

	file := filepath.Join(root, "app.properties")
	if err := os.WriteFile(file, []byte(initialProperties), 0644); err != nil {
		log.Fatalf("Failed to write properties: %v", err)
	}
	log.Printf("Wrote %s", file)

	// =========================================================================
	// PART 2: DECLARATIONS
	// One shared resource cache, declarations with different cache policies.
	// =========================================================================
	log.Println("---")
	log.Println("PART 2: Declaring properties...")

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rc := property.NewResourceCache(
		property.WithRoot(root),
		property.WithLogger(logger),
	)

	port := property.Define(rc, "app.properties", "server.port", 80, property.Int())
	livePort := property.DefineUpdateCheck(rc, "app.properties", "server.port", 80, property.Int())
	features := property.DefineUpdateCheck(rc, "app.properties", "feature.", map[string]bool(nil), property.BoolMap())
	pools := property.DefineUpdateCheck(rc, "app.properties", "pool.", map[string][]string(nil), property.StringMapList())
	server := property.DefineUpdateCheck(rc, "app.properties", "server", ServerSettings{}, property.Struct[ServerSettings]())
	osName := property.DefineSystem(rc, "os.name", "unknown", property.String())
	home := property.DefineEnv(rc, "HOME", "/", property.String())

	logValues := func() {
		log.Printf("  server.port (memory)  = %d", port.Value())
		log.Printf("  server.port (refresh) = %d", livePort.Value())
		log.Printf("  feature.*             = %v", features.Value())
		log.Printf("  pool.*                = %v", pools.Value())
		log.Printf("  server (struct)       = %+v", server.Value())
		log.Printf("  os.name (system)      = %s", osName.Value())
		log.Printf("  HOME (env)            = %s", home.Value())
	}
	logValues()

	// =========================================================================
	// PART 3: LIVE RELOAD
	// Rewrite the file; refresh declarations see the change on their next Get,
	// memory declarations keep their first value.
	// =========================================================================
	log.Println("---")
	log.Println("PART 3: Updating the file...")

	if err := os.WriteFile(file, []byte(updatedProperties), 0644); err != nil {
		log.Fatalf("Failed to update properties: %v", err)
	}
	// Make the change visible even on filesystems with coarse timestamps
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(file, later, later); err != nil {
		log.Fatalf("Failed to touch properties: %v", err)
	}
	logValues()

	// =========================================================================
	// PART 4: CONCURRENT ACCESS
	// =========================================================================
	log.Println("---")
	log.Println("PART 4: Concurrent reads...")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := livePort.Get(); err != nil {
				log.Printf("  read failed: %v", err)
			}
		}()
	}
	wg.Wait()
	log.Printf("  final server.port (refresh) = %d", livePort.Value())

	// =========================================================================
	// PART 5: MISSING SOURCE
	// =========================================================================
	log.Println("---")
	log.Println("PART 5: Missing resource...")

	missing := property.Define(rc, "missing.properties", "any.key", "fallback", property.String())
	if _, err := missing.Get(); err != nil {
		log.Printf("  Get failed as expected: %v", err)
	}
	log.Printf("  Value() falls back to %q", missing.Value())
}
